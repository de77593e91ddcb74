package repositories

import (
	"fmt"

	"github.com/yigit/schoolportal/internal/config"
	"github.com/yigit/schoolportal/internal/db"
)

// NewSessionStore returns the store selected by kind. The postgres store
// needs an open database.
func NewSessionStore(kind string, database *db.PostgresDB) (SessionStore, error) {
	switch kind {
	case config.SessionStoreMemory, "":
		return NewMemorySessionStore(), nil
	case config.SessionStorePostgres:
		if database == nil {
			return nil, fmt.Errorf("the postgres session store needs a database connection")
		}
		return NewPostgresSessionStore(database), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", kind)
	}
}
