package migrations

import "nexus.dev/orm/migrator"

func init() {
	migrator.Register(&CreatePostsTableMigration{})
}

type CreatePostsTableMigration struct{}

func (*CreatePostsTableMigration) Up(s *migrator.Schema) error {
	err := s.CreateTable("posts", migrator.Columns(
		[]migrator.Column{
			s.ID(),
			{Name: "user_id", Definition: "BIGINT NOT NULL"},
			{Name: "title", Definition: "VARCHAR(255) NOT NULL"},
			{Name: "content", Definition: "TEXT"},
			{Name: "published", Definition: "BOOLEAN NOT NULL DEFAULT FALSE"},
		},
		s.Timestamps(),
		[]migrator.Column{s.SoftDeletes()},
	), "FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE")
	if err != nil {
		return err
	}
	return s.CreateIndex("posts", "user_id")
}

func (*CreatePostsTableMigration) Down(s *migrator.Schema) error {
	return s.DropTable("posts")
}
