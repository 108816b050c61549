package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/goliatone/go-firmsite"
	"github.com/goliatone/go-firmsite/cmd/firmsite/internal/bootstrap"
	"github.com/goliatone/go-firmsite/entities"
	"github.com/google/uuid"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("firmsite: %v", err)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `usage: firmsite [-config file] [-env file] <command> [flags]

commands:
  show            print a summary of the stored state (-full for the whole document)
  sync            fetch the remote state and merge it into the local snapshot
  push            save the local state to the remote backend
  import-article  import a markdown file or directory as articles
  generate        draft an article with the AI generator (-topic, -category)
  upload          upload an image file to the remote backend
  reset           delete the local snapshot`)
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	global := flag.NewFlagSet("firmsite", flag.ContinueOnError)
	configPath := global.String("config", "", "Path to a YAML configuration file")
	envFile := global.String("env", ".env", "Path to an env file with FIRMSITE_* overrides")
	actor := global.String("actor", "", "Actor UUID recorded on admin activity")
	global.Usage = func() { usage(global.Output()) }
	if err := global.Parse(args); err != nil {
		return err
	}
	rest := global.Args()
	if len(rest) == 0 {
		usage(stdout)
		return errors.New("command required")
	}

	actorID, err := bootstrap.ParseUUID(*actor)
	if err != nil {
		return fmt.Errorf("parse actor: %w", err)
	}

	module, err := moduleBuilder(ctx, bootstrap.Options{
		ConfigPath: *configPath,
		EnvFiles:   []string{*envFile},
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := module.Close(closeCtx); err != nil {
			log.Printf("close module: %v", err)
		}
	}()

	c := cli{module: module, out: stdout, actor: actorID}
	name, cmdArgs := rest[0], rest[1:]
	switch name {
	case "show":
		return c.show(cmdArgs)
	case "sync":
		return c.sync(ctx)
	case "push":
		return c.push(ctx)
	case "import-article":
		return c.importArticle(ctx, cmdArgs)
	case "generate":
		return c.generate(ctx, cmdArgs)
	case "upload":
		return c.upload(ctx, cmdArgs)
	case "reset":
		return c.reset(ctx)
	default:
		usage(stdout)
		return fmt.Errorf("unknown command %q", name)
	}
}

type cli struct {
	module *firmsite.Module
	out    io.Writer
	actor  uuid.UUID
}

type summary struct {
	OfficeName      string         `json:"officeName"`
	CurrentCategory string         `json:"currentCategory"`
	Backend         string         `json:"backend"`
	Counts          map[string]int `json:"counts"`
}

func (c cli) show(args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	full := fs.Bool("full", false, "Print the full state document")
	if err := fs.Parse(args); err != nil {
		return err
	}

	state := c.module.State()
	if *full {
		state.Config.AdminPassword = ""
		return c.printJSON(state)
	}
	return c.printJSON(summary{
		OfficeName:      state.Config.OfficeName,
		CurrentCategory: string(state.CurrentCategory),
		Backend:         c.module.Remote().Name(),
		Counts: map[string]int{
			"articles":    len(state.Articles),
			"slides":      len(state.Slides),
			"timelines":   len(state.Timelines),
			"forms":       len(state.Forms),
			"teamMembers": len(state.TeamMembers),
			"menuItems":   len(state.MenuItems),
		},
	})
}

func (c cli) sync(ctx context.Context) error {
	result := <-c.module.StartRemoteSync(ctx)
	if result.Err != nil {
		return fmt.Errorf("remote sync: %w", result.Err)
	}
	if result.Applied {
		fmt.Fprintf(c.out, "remote state from %s applied\n", result.Backend)
	} else {
		fmt.Fprintf(c.out, "no remote state applied (backend %s)\n", result.Backend)
	}
	return nil
}

func (c cli) push(ctx context.Context) error {
	if err := c.module.PushRemote(ctx); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	fmt.Fprintf(c.out, "state pushed to %s\n", c.module.Remote().Name())
	return nil
}

func (c cli) importArticle(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("import-article: expected one file or directory")
	}
	articles, err := c.module.ImportArticles(ctx, args[0], c.actor)
	for _, article := range articles {
		fmt.Fprintf(c.out, "imported %s\t%s\n", article.ID, article.Title)
	}
	if err != nil {
		return fmt.Errorf("import-article: %w", err)
	}
	return nil
}

func (c cli) generate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	topic := fs.String("topic", "", "Article topic")
	categoryName := fs.String("category", string(entities.CategoryWills), "Article category")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*topic) == "" {
		return errors.New("generate: -topic is required")
	}
	category, ok := firmsite.ParseCategory(*categoryName)
	if !ok {
		return fmt.Errorf("generate: unknown category %q", *categoryName)
	}

	article, err := c.module.GenerateArticle(ctx, *topic, category, c.actor)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	fmt.Fprintf(c.out, "generated %s\t%s\n", article.ID, article.Title)
	return nil
}

func (c cli) upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("upload: expected one image file")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	url, err := c.module.UploadImage(ctx, firmsite.Upload{
		Name:        filepath.Base(args[0]),
		ContentType: mime.TypeByExtension(filepath.Ext(args[0])),
		Data:        data,
	})
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	fmt.Fprintln(c.out, url)
	return nil
}

func (c cli) reset(ctx context.Context) error {
	if err := c.module.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	fmt.Fprintln(c.out, "local snapshot removed")
	return nil
}

func (c cli) printJSON(value any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
