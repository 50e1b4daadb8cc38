package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/zametki/internal"
	"github.com/starford/zametki/internal/noteservice"
)

// console carries the streams used by the one-shot subcommands.
type console struct {
	out    io.Writer
	errOut io.Writer
}

func (c console) service(cmd *cli.Command) (*noteservice.Service, *internal.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(c.errOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	svc, err := internal.NewService(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return svc, cfg, nil
}

// report prints a non-empty report to stdout, otherwise the not-found
// message to stderr. Either way the command succeeds.
func (c console) report(report, notFound string) error {
	if report == "" {
		_, err := fmt.Fprintln(c.errOut, notFound)
		return err
	}
	_, err := fmt.Fprintln(c.out, report)
	return err
}

func (c console) addCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Create a note",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "Note title", Required: true},
			&cli.StringFlag{Name: "text", Usage: "Note body", Required: true},
			&cli.StringFlag{Name: "date", Usage: "Creation date (DD.MM.YYYY HH:MM), now when omitted"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, cfg, err := c.service(cmd)
			if err != nil {
				return err
			}
			note, err := svc.Create(ctx, noteservice.CreateRequest{
				Title: cmd.String("title"),
				Text:  cmd.String("text"),
				Date:  cmd.String("date"),
			})
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}
			_, err = fmt.Fprintf(c.out, messagesFor(cfg.App.Locale).created+"\n", note.ID)
			return err
		},
	}
}

func (c console) listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print every note",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, cfg, err := c.service(cmd)
			if err != nil {
				return err
			}
			report, err := svc.ListAll(ctx)
			if err != nil {
				return err
			}
			return c.report(report, messagesFor(cfg.App.Locale).noNotes)
		},
	}
}

func (c console) titlesCommand() *cli.Command {
	return &cli.Command{
		Name:  "titles",
		Usage: "Print note titles, one per line",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, cfg, err := c.service(cmd)
			if err != nil {
				return err
			}
			report, err := svc.ListTitles(ctx)
			if err != nil {
				return err
			}
			return c.report(report, messagesFor(cfg.App.Locale).noNotes)
		},
	}
}

func (c console) getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print the note with the given id",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("get: exactly one id argument is required")
			}
			id, err := noteservice.ParseID(cmd.Args().First())
			if err != nil {
				return fmt.Errorf("get: %w", err)
			}
			svc, cfg, err := c.service(cmd)
			if err != nil {
				return err
			}
			report, err := svc.GetByID(ctx, id)
			if err != nil {
				return err
			}
			return c.report(report, messagesFor(cfg.App.Locale).noID)
		},
	}
}

func (c console) searchCommand() *cli.Command {
	flags := make([]cli.Flag, 0, len(noteservice.Modes))
	for _, mode := range noteservice.Modes {
		flags = append(flags, &cli.StringFlag{Name: mode, Usage: "Search by " + mode})
	}
	return &cli.Command{
		Name:  "search",
		Usage: "Search notes by exact title, exact date or keyword",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var set []string
			for _, mode := range noteservice.Modes {
				if cmd.IsSet(mode) {
					set = append(set, mode)
				}
			}
			if len(set) != 1 {
				return fmt.Errorf("search: exactly one of --%s is required", strings.Join(noteservice.Modes, ", --"))
			}
			mode := set[0]

			svc, cfg, err := c.service(cmd)
			if err != nil {
				return err
			}
			report, err := svc.Search(ctx, mode, cmd.String(mode))
			if err != nil {
				return err
			}
			return c.report(report, messagesFor(cfg.App.Locale).search[mode])
		},
	}
}
