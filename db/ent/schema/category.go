package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// Category maps to the public.categories table. Rows are the fixed taxonomy
// seeded at startup; the slug doubles as the primary key.
type Category struct {
	ent.Schema
}

func (Category) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "categories"},
	}
}

func (Category) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable().
			StorageKey("slug").
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		field.String("name").
			NotEmpty().
			SchemaType(map[string]string{dialect.Postgres: "text"}),
	}
}

func (Category) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("documents", Document.Type),
	}
}
