package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v2"

	"job_seeker/internal/config"
	"job_seeker/internal/report"
	"job_seeker/internal/scheduler"
	"job_seeker/internal/storage/postgres"
	"job_seeker/internal/storage/sqlite"
)

func runCommand(c *cli.Context) error {
	rt, err := openRuntime(c, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	approved, rep := rt.seeker().Run(ctx, rt.request(c))

	out := c.App.Writer
	if c.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(approved); err != nil {
			return fmt.Errorf("encode listings: %w", err)
		}
	} else {
		renderListings(out, approved)
	}
	fmt.Fprintln(c.App.ErrWriter, report.Summary(rep))
	return nil
}

func watchCommand(c *cli.Context) error {
	rt, err := openRuntime(c, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	interval := rt.cfg.Schedule.Interval
	if c.IsSet("interval") {
		interval = c.Duration("interval")
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.NewScheduler(rt.seeker(), rt.request(c), interval, rt.cfg.Schedule.RunTimeout, rt.logger)
	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduler: %w", err)
	}
	return nil
}

func listCommand(c *cli.Context) error {
	rt, err := openRuntime(c, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	listings, err := rt.listings.ListPending(c.Context, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("list pending: %w", err)
	}
	renderListings(c.App.Writer, listings)
	return nil
}

func applyCommand(c *cli.Context) error {
	ids, err := parseIDs(c.Args().Slice())
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return errors.New("at least one listing id is required")
	}

	rt, err := openRuntime(c, false)
	if err != nil {
		return err
	}
	defer rt.Close()
	if err := rt.requireWritable(); err != nil {
		return err
	}

	for _, id := range ids {
		if err := rt.listings.MarkApplied(c.Context, id); err != nil {
			return fmt.Errorf("apply %d: %w", id, err)
		}
		rt.logger.Info("listing marked applied", "id", id)
	}
	return nil
}

func rejectCommand(c *cli.Context) error {
	ids, err := parseIDs(c.Args().Slice())
	if err != nil {
		return err
	}
	links := c.StringSlice("link")
	if len(ids) == 0 && len(links) == 0 {
		return errors.New("at least one listing id or --link is required")
	}

	rt, err := openRuntime(c, false)
	if err != nil {
		return err
	}
	defer rt.Close()
	if err := rt.requireWritable(); err != nil {
		return err
	}

	for _, id := range ids {
		if err := rt.listings.MarkRejected(c.Context, id); err != nil {
			return fmt.Errorf("reject %d: %w", id, err)
		}
		rt.logger.Info("listing rejected", "id", id)
	}
	if len(links) > 0 {
		n, err := rt.listings.RejectLinks(c.Context, links)
		if err != nil {
			return fmt.Errorf("reject links: %w", err)
		}
		rt.logger.Info("listings rejected by link", "requested", len(links), "rejected", n)
	}
	return nil
}

func migrateCommand(c *cli.Context) error {
	rt, err := openRuntime(c, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.cfg.Storage.Driver == config.DriverSQLite {
		err = sqlite.Migrate(c.Context, rt.db)
	} else {
		err = postgres.Migrate(c.Context, rt.db)
	}
	if err != nil {
		return err
	}
	rt.logger.Info("schema up to date", "driver", rt.cfg.Storage.Driver)
	return nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid listing id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
