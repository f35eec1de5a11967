package note

func ts(v int64) *int64 { return &v }

// DemoNotes returns the fixed demo collection written on first use.
func DemoNotes() []Note {
	return []Note{
		{
			ID:        "n101",
			CreatedAt: ts(1112222),
			Type:      TypeText,
			IsPinned:  true,
			Style:     Style{BackgroundColor: "#00d"},
			Info:      &TextInfo{Txt: "Fullstack Me Baby!"},
		},
		{
			ID:        "n102",
			CreatedAt: ts(1112255),
			Type:      TypeText,
			Style:     Style{BackgroundColor: "#ff0000"},
			Info:      &TextInfo{Txt: "Here we go!"},
		},
		{
			ID:    "n103",
			Type:  TypeImage,
			Style: Style{BackgroundColor: "#00d"},
			Info:  &ImageInfo{URL: "http://some-img/me", Title: "Bobi and Me"},
		},
		{
			ID:   "n104",
			Type: TypeTodos,
			Info: &TodoListInfo{
				Title: "Get my stuff together",
				Todos: []Todo{
					{Txt: "Driving license"},
					{Txt: "Coding power", DoneAt: ts(187111111)},
				},
			},
		},
	}
}
