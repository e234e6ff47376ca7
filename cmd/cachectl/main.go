// cachectl is an ops tool for poking at a redis-backed analysis cache:
// inspecting raw entries and invalidating keys or whole namespaces.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/bhanuc/analysiscache/store"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	cli "github.com/urfave/cli/v2"
)

func main() {
	run(os.Args)
}

func run(args []string) {
	app := cli.App{
		Name:    "cachectl",
		Usage:   "inspect and invalidate analysis cache entries",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "redis connection string for the cache backend",
				Value:   "redis://localhost:6379/0",
				EnvVars: []string{"ANALYSIS_CACHE_REDIS_URL"},
			},
		},
	}

	app.Commands = []*cli.Command{
		getCmd,
		invalidateCmd,
		invalidateNamespaceCmd,
	}

	app.RunAndExitOnError()
}

func openStore(cctx *cli.Context) (*store.RedisStore, error) {
	return store.NewRedisStore(cctx.String("redis-url"))
}

var getCmd = &cli.Command{
	Name:      "get",
	Usage:     "print the cached entry for a key",
	ArgsUsage: "<key>",
	Action: func(cctx *cli.Context) error {
		key := cctx.Args().First()
		if key == "" {
			return fmt.Errorf("key argument is required")
		}
		st, err := openStore(cctx)
		if err != nil {
			return err
		}
		entry, err := st.Get(cctx.Context, key)
		if err != nil {
			return err
		}
		fmt.Printf("key: %s\n", entry.Key)
		fmt.Printf("createdAt: %s\n", entry.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
		fmt.Printf("expiresAt: %s\n", entry.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"))
		if entry.SourceVersion != "" {
			fmt.Printf("sourceVersion: %s\n", entry.SourceVersion)
		}
		fmt.Printf("value: %s\n", string(entry.Value))
		return nil
	},
}

var invalidateCmd = &cli.Command{
	Name:      "invalidate",
	Usage:     "remove a single cache entry",
	ArgsUsage: "<key>",
	Action: func(cctx *cli.Context) error {
		key := cctx.Args().First()
		if key == "" {
			return fmt.Errorf("key argument is required")
		}
		st, err := openStore(cctx)
		if err != nil {
			return err
		}
		if err := st.Delete(cctx.Context, key); err != nil {
			return err
		}
		slog.Info("cache entry invalidated", "key", key)
		return nil
	},
}

var invalidateNamespaceCmd = &cli.Command{
	Name:      "invalidate-namespace",
	Usage:     "remove every cache entry in a namespace",
	ArgsUsage: "<namespace>",
	Action: func(cctx *cli.Context) error {
		ns := cctx.Args().First()
		if ns == "" {
			return fmt.Errorf("namespace argument is required")
		}
		st, err := openStore(cctx)
		if err != nil {
			return err
		}
		if err := st.DeleteNamespace(cctx.Context, ns); err != nil {
			return err
		}
		slog.Info("namespace invalidated", "namespace", ns)
		return nil
	},
}
