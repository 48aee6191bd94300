package model

// All lists every table the service owns, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserProvider{},
		&Profile{},
		&Notebook{},
		&Page{},
		&Note{},
		&PageShare{},
		&NoteShare{},
		&ForkEvent{},
	}
}
