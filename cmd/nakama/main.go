package main

import (
	"context"
	"database/sql"

	"trisect/internal/ports/nakama"

	"github.com/heroiclabs/nakama-common/runtime"
)

// main is unused; the package is compiled with -buildmode=plugin and Nakama
// invokes InitModule directly.
func main() {}

// InitModule proxies Nakama initialization to the nakama adapter package.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	return nakama.InitModule(ctx, logger, db, nk, initializer)
}
