package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"github.com/google/uuid"
)

// CollaboratorLink maps to the public.collaborator_links table. The token
// is the primary key; it is the only credential a collaborator holds.
type CollaboratorLink struct {
	ent.Schema
}

func (CollaboratorLink) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "collaborator_links"},
	}
}

func (CollaboratorLink) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable().
			StorageKey("token").
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		field.UUID("user_id", uuid.UUID{}),
		field.String("collaborator_name").NotEmpty(),
		field.String("collaborator_email").NotEmpty(),
		field.String("document_type").Optional().Nillable(),
		field.String("message").Optional().Nillable(),
		field.Time("expiration_date"),
		field.Bool("manual_approval").Default(false),
		field.Enum("status").
			Values("active", "expired", "used").
			Default("active"),
		field.JSON("documents_uploaded", []uuid.UUID{}).
			SchemaType(map[string]string{dialect.Postgres: "uuid[]"}),
		field.Time("created_at").Default(time.Now).Immutable(),
	}
}

func (CollaboratorLink) Edges() []ent.Edge {
	return []ent.Edge{
		// MANY links -> ONE user (FK: collaborator_links.user_id)
		edge.From("owner", User.Type).
			Ref("collaborator_links").
			Field("user_id").
			Required().
			Unique(),
	}
}
