// Migration command, for running schema changes outside the server process.
// Usage: TAVLIST_CONFIG_PATH=/etc/tavlist/config.yaml go run ./cmd/migrate [-rollback]
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/hubtav/tavlist/dao/query"
	"github.com/hubtav/tavlist/pkg/config"
)

func main() {
	rollback := flag.Bool("rollback", false, "undo the most recent migration")
	flag.Parse()

	conf := config.GetConfig()
	db, err := query.Open(conf)
	if err != nil {
		panic(fmt.Errorf("connect db fail: %w", err))
	}

	if *rollback {
		if err := query.RollbackLast(db); err != nil {
			panic(err)
		}
		fmt.Println("rolled back the last migration")
		return
	}

	if err := query.Migrate(db); err != nil {
		panic(err)
	}
	admin := conf.Auth.BootstrapAdmin
	if err := query.EnsureAdmin(context.Background(), db, admin.Email, admin.Password, admin.FullName); err != nil {
		panic(fmt.Errorf("bootstrap admin fail: %w", err))
	}
	fmt.Println("schema is up to date")
}
