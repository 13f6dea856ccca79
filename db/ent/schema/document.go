package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

// Document maps to the public.documents table.
type Document struct {
	ent.Schema
}

func (Document) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "documents"},
	}
}

func (Document) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.UUID("user_id", uuid.UUID{}),
		field.String("category_id").StorageKey("category_slug"),
		field.String("name").NotEmpty(),
		field.String("description").Optional().Nillable(),
		field.Enum("doc_type").
			Values("certidao", "atestado", "proposta", "orcamento", "cronograma",
				"bdi", "documento_constitutivo", "balanco", "outro").
			Default("outro"),
		field.Time("issue_date").
			Optional().Nillable().
			SchemaType(map[string]string{dialect.Postgres: "date"}),
		field.Time("expiration_date").
			Optional().Nillable().
			SchemaType(map[string]string{dialect.Postgres: "date"}),
		field.Enum("status").
			Values("valid", "expiring", "expired", "pending").
			Default("valid"),
		field.String("file_url").NotEmpty(),
		field.Int64("file_size").Optional().Nillable(),
		field.String("file_format").Optional().Nillable(),
		field.JSON("metadata", map[string]any{}).
			SchemaType(map[string]string{dialect.Postgres: "jsonb"}),
		field.Strings("tags").
			SchemaType(map[string]string{dialect.Postgres: "text[]"}),
		field.Time("created_at").Default(time.Now).Immutable(),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

func (Document) Edges() []ent.Edge {
	return []ent.Edge{
		// MANY documents -> ONE user (FK: documents.user_id)
		edge.From("owner", User.Type).
			Ref("documents").
			Field("user_id").
			Required().
			Unique(),
		// MANY documents -> ONE category (FK: documents.category_slug)
		edge.From("category", Category.Type).
			Ref("documents").
			Field("category_id").
			Required().
			Unique(),
	}
}

func (Document) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id"),
		index.Fields("category_id"),
		index.Fields("status"),
	}
}
