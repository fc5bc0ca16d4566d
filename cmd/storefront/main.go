package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rl1809/storefront/internal/adapter/handler"
	"github.com/rl1809/storefront/internal/config"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
)

const usage = `usage: storefront [-config dir] [-env name] <command> [args]

commands:
  products [-search s] [-category c]   list the catalog
  cart [-search s]                     show the cart
  add <product-id>                     add a catalog product to the cart
  inc <product-id>                     increase quantity
  dec <product-id>                     decrease quantity
  rm <product-id>                      remove a line
  clear                                empty the cart
  checkout -name -phone -address1 ...  place an order for the cart
  orders                               list my orders
  login <token>                        store the auth token
  logout                               forget the auth token
  serve                                run the local HTTP surface
  tui                                  interactive terminal UI
`

func main() {
	configDir := flag.String("config", "configs", "config directory")
	envName := flag.String("env", os.Getenv("APP_ENV"), "config overlay name")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configDir, *envName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if err := run(cfg, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, cmd string, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Only serve logs to stdout; the other commands own the terminal.
	a, err := newApp(ctx, cfg, cmd != "serve")
	if err != nil {
		return err
	}
	defer a.Close()

	switch cmd {
	case "products":
		return a.products(ctx, os.Stdout, args)
	case "cart":
		return a.showCart(os.Stdout, args)
	case "add":
		return a.add(ctx, os.Stdout, args)
	case "inc", "dec", "rm":
		return a.mutate(ctx, os.Stdout, cmd, args)
	case "clear":
		a.cart.Clear(ctx)
		return a.showCart(os.Stdout, nil)
	case "checkout":
		return a.placeOrder(ctx, os.Stdout, args)
	case "orders":
		return a.orders(ctx, os.Stdout)
	case "login":
		if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
			return errors.New("login needs a token")
		}
		return a.tokens.SetToken(ctx, strings.TrimSpace(args[0]))
	case "logout":
		return a.tokens.ClearToken(ctx)
	case "serve":
		return a.serve(ctx)
	case "tui":
		_, err := tea.NewProgram(newModel(ctx, a), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) products(ctx context.Context, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	search := fs.String("search", "", "match title or description")
	category := fs.String("category", service.AllCategories, "category filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	all, err := a.catalog.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range service.Filter(all, *search, *category) {
		stock := fmt.Sprint(p.Stock)
		if !p.InStock() {
			stock = "out of stock"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n", p.ID, p.Title, p.Category, p.Price, stock)
	}
	return tw.Flush()
}

func (a *app) showCart(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("cart", flag.ContinueOnError)
	search := fs.String("search", "", "match title, description or category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cart := a.cart.Cart()
	if len(cart) == 0 {
		fmt.Fprintln(w, "cart is empty")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tQTY\tLINE TOTAL")
	for _, l := range cart.Search(*search) {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%d\t%s\n", l.ProductID, l.Title, l.Price, l.Quantity, domain.FormatAmount(l.LineTotal()))
	}
	fmt.Fprintf(tw, "\t\t\t%d items\t%s\n", a.cart.Count(), domain.FormatAmount(a.cart.Total()))
	return tw.Flush()
}

// add looks the id up in the catalog so the line gets a full snapshot.
func (a *app) add(ctx context.Context, w io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.New("add needs a product id")
	}
	all, err := a.catalog.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range all {
		if p.ID == args[0] {
			if !p.InStock() {
				return fmt.Errorf("%s is out of stock", p.Title)
			}
			a.cart.AddItem(ctx, p)
			return a.showCart(w, nil)
		}
	}
	return fmt.Errorf("product %q not found", args[0])
}

func (a *app) mutate(ctx context.Context, w io.Writer, cmd string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%s needs a product id", cmd)
	}
	switch cmd {
	case "inc":
		a.cart.IncreaseQuantity(ctx, args[0])
	case "dec":
		a.cart.DecreaseQuantity(ctx, args[0])
	case "rm":
		a.cart.RemoveItem(ctx, args[0])
	}
	return a.showCart(w, nil)
}

func (a *app) placeOrder(ctx context.Context, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	form := &domain.AddressForm{}
	fs.StringVar(&form.Name, "name", "", "full name")
	fs.StringVar(&form.Phone, "phone", "", "phone number")
	fs.StringVar(&form.Address1, "address1", "", "address line 1")
	fs.StringVar(&form.Address2, "address2", "", "address line 2")
	fs.StringVar(&form.City, "city", "", "city")
	fs.StringVar(&form.State, "state", "", "state")
	fs.StringVar(&form.Pincode, "pincode", "", "pincode")
	fs.StringVar(&form.Instructions, "instructions", "", "delivery instructions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	order, err := a.checkout.PlaceOrder(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "order %s placed (%s), total %.2f\n", order.ID, order.Status, order.TotalAmount)
	return nil
}

func (a *app) orders(ctx context.Context, w io.Writer) error {
	orders, err := a.history.MyOrders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(w, "no orders yet")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tSTATUS\tTOTAL\tPLACED\tITEMS")
	for _, o := range orders {
		items := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, fmt.Sprintf("%s x%d", it.DisplayTitle(), it.Quantity))
		}
		placed := "-"
		if !o.CreatedAt.IsZero() {
			placed = o.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%s\n", o.ID, o.Status, o.TotalAmount, placed, strings.Join(items, ", "))
	}
	return tw.Flush()
}

func (a *app) serve(ctx context.Context) error {
	h := handler.NewHandler(a.cart, a.checkout, a.catalog, a.history)
	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           handler.NewRouter(h, a.log.With("component", "http"), a.metrics),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down...")
	// Close open event streams first so Shutdown does not wait on them.
	a.cart.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	a.log.Info("HTTP server stopped")
	return nil
}
