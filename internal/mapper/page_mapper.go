package mapper

import (
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/model"
)

type PageMapper struct{}

func NewPageMapper() *PageMapper {
	return &PageMapper{}
}

func (m *PageMapper) ToEntity(p *model.Page) *entity.Page {
	if p == nil {
		return nil
	}

	var kind *entity.ShareKind
	if p.SourceShareType != nil {
		// Rows written before the kind was validated are treated as having no provenance type.
		if k, err := entity.ParseShareKind(*p.SourceShareType); err == nil {
			kind = &k
		}
	}

	return &entity.Page{
		Id:               p.Id,
		NotebookId:       p.NotebookId,
		UserId:           p.UserId,
		Title:            p.Title,
		YoutubeVideoId:   p.YoutubeVideoId,
		VideoTitle:       p.VideoTitle,
		ChannelName:      p.ChannelName,
		ThumbnailURL:     p.ThumbnailURL,
		DurationSeconds:  p.DurationSeconds,
		Description:      p.Description,
		SourceShareToken: p.SourceShareToken,
		SourceShareType:  kind,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        updatedAtPtr(p.UpdatedAt),
		DeletedAt:        deletedAtPtr(p.DeletedAt),
		IsDeleted:        p.DeletedAt.Valid,
	}
}

func (m *PageMapper) ToModel(p *entity.Page) *model.Page {
	if p == nil {
		return nil
	}

	var kind *string
	if p.SourceShareType != nil {
		s := p.SourceShareType.String()
		kind = &s
	}

	return &model.Page{
		Id:               p.Id,
		NotebookId:       p.NotebookId,
		UserId:           p.UserId,
		Title:            p.Title,
		YoutubeVideoId:   p.YoutubeVideoId,
		VideoTitle:       p.VideoTitle,
		ChannelName:      p.ChannelName,
		ThumbnailURL:     p.ThumbnailURL,
		DurationSeconds:  p.DurationSeconds,
		Description:      p.Description,
		SourceShareToken: p.SourceShareToken,
		SourceShareType:  kind,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        updatedAtValue(p.UpdatedAt),
		DeletedAt:        toGormDeletedAt(p.DeletedAt, p.IsDeleted),
	}
}

func (m *PageMapper) ToEntities(pages []*model.Page) []*entity.Page {
	entities := make([]*entity.Page, len(pages))
	for i, p := range pages {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
