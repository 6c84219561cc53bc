package store

import "github.com/voyagen/tvguide/internal/query"

// ChannelSchema lists the channel fields clients may filter and sort on.
// Columns use the alias "c" of the channel list query.
var ChannelSchema = query.NewSchema(
	query.Field{Name: "id", Column: "c.id", Kind: query.KindNumber},
	query.Field{Name: "name", Column: "c.name", Kind: query.KindText, Searchable: true},
	query.Field{Name: "isActive", Column: "c.is_active", Kind: query.KindBool},
)

// ProgramSchema lists the program fields clients may filter and sort on,
// including the joined display names.
var ProgramSchema = query.NewSchema(
	query.Field{Name: "id", Column: "p.id", Kind: query.KindNumber},
	query.Field{Name: "title", Column: "p.title", Kind: query.KindText, Searchable: true},
	query.Field{Name: "duration", Column: "p.duration", Kind: query.KindNumber},
	query.Field{Name: "description", Column: "p.description", Kind: query.KindText, Searchable: true},
	query.Field{Name: "videoUrl", Column: "p.video_url", Kind: query.KindText, Searchable: true},
	query.Field{Name: "channelId", Column: "p.channel_id", Kind: query.KindNumber},
	query.Field{Name: "typeId", Column: "p.type_id", Kind: query.KindNumber},
	query.Field{Name: "categoryId", Column: "p.category_id", Kind: query.KindNumber},
	query.Field{Name: "airDate", Column: "p.air_date", Kind: query.KindTime},
	query.Field{Name: "isActive", Column: "p.is_active", Kind: query.KindBool},
	query.Field{Name: "channelName", Column: "ch.name", Kind: query.KindText, Searchable: true},
	query.Field{Name: "typeName", Column: "t.name", Kind: query.KindText, Searchable: true},
	query.Field{Name: "categoryName", Column: "cat.name", Kind: query.KindText, Searchable: true},
)
