package migrations

import "nexus.dev/orm/migrator"

func init() {
	migrator.Register(&CreatePostTagsTableMigration{})
}

type CreatePostTagsTableMigration struct{}

func (*CreatePostTagsTableMigration) Up(s *migrator.Schema) error {
	return s.CreateTable("post_tags", []migrator.Column{
		{Name: "post_id", Definition: "BIGINT NOT NULL"},
		{Name: "tag_id", Definition: "BIGINT NOT NULL"},
	},
		"PRIMARY KEY (post_id, tag_id)",
		"FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE",
		"FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE",
	)
}

func (*CreatePostTagsTableMigration) Down(s *migrator.Schema) error {
	return s.DropTable("post_tags")
}
