// Command storefront is a terminal front end for the shop. The cart and the
// order history live in a local SQLite file, so they survive between runs
// the way a browser's localStorage would.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/LautaroYamil/trabajo-practico-2/internal/cart"
	"github.com/LautaroYamil/trabajo-practico-2/internal/catalog"
	"github.com/LautaroYamil/trabajo-practico-2/internal/repository/kv"
	"github.com/LautaroYamil/trabajo-practico-2/internal/storage/sqlite"
	pkgconfig "github.com/LautaroYamil/trabajo-practico-2/pkg/config"
	apperrors "github.com/LautaroYamil/trabajo-practico-2/pkg/errors"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/logger"
)

// environment holds the defaults a shell can set with STOREFRONT_ variables.
type environment struct {
	DB       string `env:"DB" envDefault:"storefront.db"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"debug"`
}

// cli holds what every command needs. It is filled in by PersistentPreRunE.
type cli struct {
	env     environment
	dbPath  string
	verbose bool

	out     io.Writer
	log     *slog.Logger
	db      *sqlite.Store
	store   *cart.Store
	catalog *catalog.Static
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", userMessage(err))
		os.Exit(1)
	}
}

// userMessage drops the error code and wrapped sentinel from application
// errors, keeping the part meant for people.
func userMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// run executes one command line. The SQLite file is closed even when the
// command fails.
func run(ctx context.Context, out io.Writer, args []string) (err error) {
	var e environment
	if err := pkgconfig.LoadWithPrefix(&e, "STOREFRONT_"); err != nil {
		return err
	}

	root, c := newRootCmd(out, e)
	root.SetArgs(args)
	defer func() { err = errors.Join(err, c.close()) }()
	return root.ExecuteContext(ctx)
}

func newRootCmd(out io.Writer, e environment) (*cobra.Command, *cli) {
	c := &cli{env: e, out: out}

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Browse the catalog, manage your cart and place orders",
		Long: `storefront is the terminal version of the shop.

The cart and your past orders are kept in a local SQLite file (--db), so
they are still there the next time you run a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd.Context())
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	root.PersistentFlags().StringVar(&c.dbPath, "db", e.DB, "path of the SQLite file holding the cart and orders")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log storage activity to stderr at STOREFRONT_LOG_LEVEL")

	root.AddCommand(
		c.productsCmd(),
		c.cartCmd(),
		c.checkoutCmd(),
		c.ordersCmd(),
	)
	return root, c
}

// open loads the catalog and restores the cart from the SQLite file.
func (c *cli) open(ctx context.Context) error {
	c.log = logger.Discard()
	if c.verbose {
		c.log = logger.NewWithWriter("storefront-cli", c.env.LogLevel, os.Stderr)
	}

	products, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	c.catalog = products

	db, err := sqlite.Open(ctx, c.dbPath)
	if err != nil {
		return err
	}
	c.db = db

	c.store = cart.New(ctx, db, kv.NewOrderRepository(db, c.log), &toastPrinter{out: c.out}, c.log)
	return nil
}

func (c *cli) close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
