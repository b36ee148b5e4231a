package migrations

import "nexus.dev/orm/migrator"

func init() {
	migrator.Register(&CreateTagsTableMigration{})
}

type CreateTagsTableMigration struct{}

func (*CreateTagsTableMigration) Up(s *migrator.Schema) error {
	return s.CreateTable("tags", migrator.Columns(
		[]migrator.Column{
			s.ID(),
			{Name: "name", Definition: "VARCHAR(255) NOT NULL UNIQUE"},
			{Name: "slug", Definition: "VARCHAR(255) NOT NULL UNIQUE"},
		},
		s.Timestamps(),
	))
}

func (*CreateTagsTableMigration) Down(s *migrator.Schema) error {
	return s.DropTable("tags")
}
