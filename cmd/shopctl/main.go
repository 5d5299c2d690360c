// Command shopctl is a terminal front end for the ebook shop. It wires the
// session store, request gateway and domain clients, and maps one
// subcommand to each remote capability.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/Hwangsangha/ebook-client/internal/cartview"
	"github.com/Hwangsangha/ebook-client/internal/config"
	"github.com/Hwangsangha/ebook-client/internal/gateway"
	"github.com/Hwangsangha/ebook-client/internal/session"
	"github.com/Hwangsangha/ebook-client/internal/shopclient"
	"github.com/Hwangsangha/ebook-client/internal/util"
	"github.com/Hwangsangha/ebook-client/pkg/domain"
)

const usage = `usage: shopctl [-config file] <command> [args]

commands:
  register <email> <name>        create an account (password prompted)
  login <email>                  log in (password prompted)
  logout                         drop the local session
  whoami                         show the current session
  ebooks                         list the catalog
  ebook <id>                     show one ebook
  cart                           show cart lines and summary
  cart add <ebookId> [qty]       put an ebook in the cart
  cart inc <ebookId>             raise a line's quantity
  cart dec <ebookId>             lower a line's quantity (removes at 1)
  cart rm <ebookId>              remove a line
  order create [ebookId]         order the cart, or one ebook directly
  order list                     list my orders
  order show <id>                show one order
  order pay <id>                 pay a pending order
  order cancel <id>              cancel a pending order
  download <orderId> <ebookId> <out>  fetch a purchased ebook
  admin list [page] [size] [status]   list ebooks (admin)
  admin create [flags]           register an ebook (admin), see admin create -h
  admin update <id> [flags]      change ebook fields (admin)
  admin rm <id>                  delete an ebook (admin)
`

func main() {
	configPath := flag.String("config", os.Getenv("SHOP_CONFIG"), "path to config.yaml")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	util.InitLogger(os.Stderr, cfg.LogLevel)

	sessions, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("failed to init session store: %v", err)
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		log.Fatalf("%v", err)
	}
	gw, err := gateway.New(gateway.Config{
		BaseURL:    cfg.BaseURL,
		Sessions:   sessions,
		HTTPClient: &http.Client{Timeout: timeout},
		OnSessionExpired: func() {
			fmt.Fprintln(os.Stderr, "session expired, please log in again")
		},
	})
	if err != nil {
		log.Fatalf("failed to init gateway: %v", err)
	}
	clients := shopclient.New(gw)

	if args[0] == "whoami" {
		sess := sessions.Get()
		if !sess.Active() {
			fmt.Println("not logged in")
			return
		}
		fmt.Printf("user %s (%s)\n", sess.UserID, sess.Role)
		return
	}

	if err := run(context.Background(), clients, args); err != nil {
		if errors.Is(err, gateway.ErrSessionExpired) {
			// The expiry notice already printed; no inline error on top.
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newSessionStore(cfg config.FileConfig) (session.Store, error) {
	switch cfg.SessionBackend {
	case config.BackendRedis:
		return session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, "shop:session")
	case config.BackendMemory:
		return session.NewMemoryStore(), nil
	default:
		return session.NewFileStore(cfg.SessionFile)
	}
}

func run(ctx context.Context, clients *shopclient.Clients, args []string) error {
	switch args[0] {
	case "register":
		if len(args) != 3 {
			return errors.New("usage: register <email> <name>")
		}
		password, err := promptPassword()
		if err != nil {
			return err
		}
		sess, err := clients.Auth.Register(ctx, args[1], password, args[2])
		if err != nil {
			return err
		}
		fmt.Printf("registered and logged in as %s (%s)\n", sess.UserID, sess.Role)
		return nil

	case "login":
		if len(args) != 2 {
			return errors.New("usage: login <email>")
		}
		password, err := promptPassword()
		if err != nil {
			return err
		}
		sess, err := clients.Auth.Login(ctx, args[1], password)
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", sess.UserID, sess.Role)
		return nil

	case "logout":
		return clients.Auth.Logout()

	case "ebooks":
		ebooks, err := clients.Ebooks.List(ctx)
		if err != nil {
			return err
		}
		if len(ebooks) == 0 {
			fmt.Println("no ebooks")
			return nil
		}
		for _, e := range ebooks {
			fmt.Printf("%d\t%s\t%s\t%d\t%s\n", e.ID, e.Title, e.Author, e.Price, e.Status)
		}
		return nil

	case "ebook":
		id, err := parseID(args, 1, "ebook <id>")
		if err != nil {
			return err
		}
		e, err := clients.Ebooks.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("%d\t%s\t%s\t%d\t%s\n%s\n", e.ID, e.Title, e.Author, e.Price, e.Status, e.Description)
		return nil

	case "cart":
		return runCart(ctx, clients, args[1:])

	case "order":
		return runOrder(ctx, clients, args[1:])

	case "admin":
		return runAdmin(ctx, clients, args[1:])

	case "download":
		if len(args) != 4 {
			return errors.New("usage: download <orderId> <ebookId> <out>")
		}
		orderID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad orderId %q", args[1])
		}
		ebookID, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("bad ebookId %q", args[2])
		}
		token, err := clients.Downloads.IssueToken(ctx, orderID, ebookID)
		if err != nil {
			return err
		}
		out, err := os.Create(args[3])
		if err != nil {
			return err
		}
		defer out.Close()
		if err := clients.Downloads.Fetch(ctx, token.Token, out); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", args[3])
		return nil

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runCart(ctx context.Context, clients *shopclient.Clients, args []string) error {
	if len(args) == 0 {
		// Lines and summary are independent reads; fetch them together.
		var lines []domain.CartLine
		var summary domain.CartSummary
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			lines, err = clients.Cart.Items(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			summary, err = clients.Cart.Summary(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
		for _, l := range lines {
			fmt.Printf("%d\t%s\t%d x %d = %d\n", l.EbookID, l.Title, l.Price, l.Quantity, l.SubTotal)
		}
		fmt.Printf("total: %d items, %d\n", summary.TotalQuantity, summary.TotalAmount)
		return nil
	}

	switch args[0] {
	case "add":
		id, err := parseID(args, 1, "cart add <ebookId> [qty]")
		if err != nil {
			return err
		}
		qty := 1
		if len(args) > 2 {
			qty, err = strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("bad quantity %q", args[2])
			}
		}
		item, err := clients.Cart.AddItem(ctx, id, qty)
		if err != nil {
			return err
		}
		fmt.Printf("cart line %d: ebook %d x %d\n", item.ID, item.EbookID, item.Quantity)
		return nil

	case "inc", "dec", "rm":
		id, err := parseID(args, 1, "cart "+args[0]+" <ebookId>")
		if err != nil {
			return err
		}
		view := cartview.New(clients.Cart)
		if err := view.Load(ctx); err != nil {
			return err
		}
		switch args[0] {
		case "inc":
			err = view.Increment(ctx, id)
		case "dec":
			err = view.Decrement(ctx, id)
		case "rm":
			err = view.Remove(ctx, id)
		}
		var mErr *cartview.MutationError
		if errors.As(err, &mErr) {
			// Mutation rejected server-side; show both states and leave the
			// decision to the user, mirroring what a page would do.
			fmt.Fprintf(os.Stderr, "change not accepted: %v\n", mErr.Err)
			return err
		}
		if err != nil {
			return err
		}
		for _, l := range view.Lines() {
			fmt.Printf("%d\t%s\t%d x %d = %d\n", l.EbookID, l.Title, l.Price, l.Quantity, l.SubTotal)
		}
		return nil

	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
}

func runOrder(ctx context.Context, clients *shopclient.Clients, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: order create|list|show|pay|cancel")
	}
	switch args[0] {
	case "create":
		var order domain.Order
		var err error
		if len(args) > 1 {
			var ebookID int64
			ebookID, err = strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("bad ebookId %q", args[1])
			}
			order, err = clients.Orders.CreateDirect(ctx, ebookID)
		} else {
			order, err = clients.Orders.Create(ctx)
		}
		if err != nil {
			return err
		}
		fmt.Printf("order %d (%s) created: %d\n", order.ID, order.OrderNumber, order.FinalAmount)
		return nil

	case "list":
		orders, err := clients.Orders.List(ctx)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			fmt.Println("no orders")
			return nil
		}
		for _, o := range orders {
			fmt.Printf("%d\t%s\t%s\t%d\t%s\n", o.OrderID, o.OrderNumber, o.Status, o.FinalAmount, o.CreatedAt)
		}
		return nil

	case "show":
		id, err := parseID(args, 1, "order show <id>")
		if err != nil {
			return err
		}
		order, err := clients.Orders.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("order %d (%s) %s total=%d final=%d\n", order.ID, order.OrderNumber, order.Status, order.TotalAmount, order.FinalAmount)
		for _, l := range order.Items {
			fmt.Printf("  %d\t%s\t%d x %d = %d\n", l.EbookID, l.Title, l.Price, l.Quantity, l.SubTotal)
		}
		return nil

	case "pay":
		id, err := parseID(args, 1, "order pay <id>")
		if err != nil {
			return err
		}
		if err := clients.Orders.Pay(ctx, id); err != nil {
			return err
		}
		// The transition is server-authoritative; re-fetch to show the
		// actual resulting state instead of assuming PAID.
		order, err := clients.Orders.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("order %d is now %s\n", order.ID, order.Status)
		return nil

	case "cancel":
		id, err := parseID(args, 1, "order cancel <id>")
		if err != nil {
			return err
		}
		if err := clients.Orders.Cancel(ctx, id); err != nil {
			return err
		}
		order, err := clients.Orders.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("order %d is now %s\n", order.ID, order.Status)
		return nil

	default:
		return fmt.Errorf("unknown order command %q", args[0])
	}
}

func runAdmin(ctx context.Context, clients *shopclient.Clients, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: admin list|create|update|rm")
	}
	switch args[0] {
	case "list":
		page, size := 0, 20
		var err error
		if len(args) > 1 {
			if page, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("bad page %q", args[1])
			}
		}
		if len(args) > 2 {
			if size, err = strconv.Atoi(args[2]); err != nil {
				return fmt.Errorf("bad size %q", args[2])
			}
		}
		status := ""
		if len(args) > 3 {
			status = args[3]
		}
		result, err := clients.Admin.ListEbooks(ctx, page, size, status)
		if err != nil {
			return err
		}
		for _, e := range result.Items {
			fmt.Printf("%d\t%s\t%s\t%d\t%s\n", e.ID, e.Title, e.Author, e.Price, e.Status)
		}
		fmt.Printf("page %d, %d total\n", result.Page, result.Total)
		return nil

	case "create":
		fs := flag.NewFlagSet("admin create", flag.ContinueOnError)
		title := fs.String("title", "", "ebook title")
		author := fs.String("author", "", "ebook author")
		price := fs.Int64("price", 0, "price in minor units")
		status := fs.String("status", string(domain.EbookActive), "ACTIVE|INACTIVE|SOLD_OUT")
		thumb := fs.String("thumb", "", "thumbnail image path")
		file := fs.String("file", "", "ebook file path")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		params := shopclient.CreateEbookParams{
			Title:  *title,
			Author: *author,
			Price:  *price,
			Status: domain.EbookStatus(*status),
		}
		if *thumb != "" {
			f, err := os.Open(*thumb)
			if err != nil {
				return err
			}
			defer f.Close()
			params.Thumbnail = f
			params.ThumbnailName = filepath.Base(*thumb)
		}
		if *file != "" {
			f, err := os.Open(*file)
			if err != nil {
				return err
			}
			defer f.Close()
			params.File = f
			params.Filename = filepath.Base(*file)
		}
		ebook, err := clients.Admin.CreateEbook(ctx, params)
		if err != nil {
			return err
		}
		fmt.Printf("created ebook %d: %s\n", ebook.ID, ebook.Title)
		return nil

	case "update":
		id, err := parseID(args, 1, "admin update <id> [flags]")
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("admin update", flag.ContinueOnError)
		title := fs.String("title", "", "new title")
		author := fs.String("author", "", "new author")
		price := fs.Int64("price", -1, "new price")
		status := fs.String("status", "", "new status")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		var params shopclient.UpdateEbookParams
		if *title != "" {
			params.Title = title
		}
		if *author != "" {
			params.Author = author
		}
		if *price >= 0 {
			params.Price = price
		}
		if *status != "" {
			s := domain.EbookStatus(*status)
			params.Status = &s
		}
		ebook, err := clients.Admin.UpdateEbook(ctx, id, params)
		if err != nil {
			return err
		}
		fmt.Printf("updated ebook %d: %s (%s)\n", ebook.ID, ebook.Title, ebook.Status)
		return nil

	case "rm":
		id, err := parseID(args, 1, "admin rm <id>")
		if err != nil {
			return err
		}
		if err := clients.Admin.DeleteEbook(ctx, id); err != nil {
			return err
		}
		fmt.Printf("deleted ebook %d\n", id)
		return nil

	default:
		return fmt.Errorf("unknown admin command %q", args[0])
	}
}

func parseID(args []string, idx int, usage string) (int64, error) {
	if len(args) <= idx {
		return 0, errors.New("usage: " + usage)
	}
	id, err := strconv.ParseInt(args[idx], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad id %q", args[idx])
	}
	return id, nil
}

// Test seams for the terminal calls; stubbed so tests never need a tty.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// promptPassword reads the password without echo when stdin is a terminal;
// piped input falls back to a plain line read.
func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "password: ")
	fd := int(os.Stdin.Fd())
	if isTerminal(fd) {
		pw, err := readPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
