package migrations

import "nexus.dev/orm/migrator"

func init() {
	migrator.Register(&CreateCommentsTableMigration{})
}

type CreateCommentsTableMigration struct{}

func (*CreateCommentsTableMigration) Up(s *migrator.Schema) error {
	return s.CreateTable("comments", migrator.Columns(
		[]migrator.Column{
			s.ID(),
			{Name: "content", Definition: "TEXT NOT NULL"},
			{Name: "user_id", Definition: "BIGINT NOT NULL"},
			{Name: "post_id", Definition: "BIGINT NOT NULL"},
		},
		s.Timestamps(),
	),
		"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
		"FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE",
	)
}

func (*CreateCommentsTableMigration) Down(s *migrator.Schema) error {
	return s.DropTable("comments")
}
