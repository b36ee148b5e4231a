package migrations

import "nexus.dev/orm/migrator"

func init() {
	migrator.Register(&CreateUsersTableMigration{})
}

type CreateUsersTableMigration struct{}

func (*CreateUsersTableMigration) Up(s *migrator.Schema) error {
	err := s.CreateTable("users", migrator.Columns(
		[]migrator.Column{
			s.ID(),
			{Name: "name", Definition: "VARCHAR(255) NOT NULL"},
			{Name: "email", Definition: "VARCHAR(255) NOT NULL"},
			{Name: "password", Definition: "VARCHAR(255) NOT NULL"},
			{Name: "active", Definition: "BOOLEAN NOT NULL DEFAULT TRUE"},
		},
		s.Timestamps(),
	))
	if err != nil {
		return err
	}
	return s.CreateUniqueIndex("users", "email")
}

func (*CreateUsersTableMigration) Down(s *migrator.Schema) error {
	return s.DropTable("users")
}
