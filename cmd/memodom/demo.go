package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/vango-dev/memodom/internal/config"
	"github.com/vango-dev/memodom/internal/errors"
	"github.com/vango-dev/memodom/pkg/driver"
	"github.com/vango-dev/memodom/pkg/journal"
	"github.com/vango-dev/memodom/pkg/surface"
	"github.com/vango-dev/memodom/pkg/vdom"
)

func demoCmd() *cobra.Command {
	var (
		out     string
		archive bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted session against an in-memory surface",
		Long: `Run a scripted session: mount a board, add and toggle rows, reorder
them, click the add button, then swap the root component.

After every step the change list and the resulting markup are printed.

Examples:
  memodom demo
  memodom demo --journal session.mdj
  memodom demo --archive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runDemo(cmd.Context(), cfg, out, archive)
		},
	}

	cmd.Flags().StringVarP(&out, "journal", "j", "", "Write the recorded batches to this file")
	cmd.Flags().BoolVar(&archive, "archive", false, "Upload the journal to the configured S3 bucket")

	return cmd
}

// recorder applies change lists to a surface and keeps the last one.
type recorder struct {
	exec *surface.Executor
	last vdom.ChangeList
}

func (r *recorder) Execute(ctx context.Context, cl vdom.ChangeList) error {
	r.last = cl
	return r.exec.Execute(ctx, cl)
}

type demoStep struct {
	name string
	run  func(ctx context.Context, d *driver.Vdom) error
}

// withBoard mutates the board under exclusive access and renders.
func withBoard(fn func(b *board)) func(context.Context, *driver.Vdom) error {
	return func(ctx context.Context, d *driver.Vdom) error {
		err := driver.WithComponentAs(ctx, d, func(b *board) error {
			fn(b)
			return nil
		})
		if err != nil {
			return err
		}
		return d.Render(ctx)
	}
}

var demoSteps = []demoStep{
	{"add rows", withBoard(func(b *board) {
		b.add("write tests")
		b.add("ship it")
	})},
	{"nothing changed", func(ctx context.Context, d *driver.Vdom) error {
		return d.Render(ctx)
	}},
	{"toggle row 2", withBoard(func(b *board) { b.toggle(2) })},
	{"reverse rows", withBoard(func(b *board) { b.reverse() })},
	{"click add", func(ctx context.Context, d *driver.Vdom) error {
		id, ok := findByAttr(d.Tree(), "id", "add")
		if !ok {
			return fmt.Errorf("demo: add button not mounted")
		}
		_, err := d.Dispatch(ctx, id, vdom.Event{Name: "click"})
		return err
	}},
	{"remove row 1", withBoard(func(b *board) { b.remove(1) })},
	{"swap root", func(ctx context.Context, d *driver.Vdom) error {
		return d.SetComponent(ctx, newBoard("archive", "old news", "older news"))
	}},
}

func runDemo(ctx context.Context, cfg *config.Config, out string, archive bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mem := surface.NewMemory()
	rec := &recorder{exec: surface.NewExecutor(mem)}
	j := journal.New(cfg.Journal.Capacity)

	printBanner()
	fmt.Println("  demo")
	fmt.Println()

	d, err := driver.New(ctx, rec, newBoard("todo", "read the docs"),
		driver.WithLogger(cfg.Logger(os.Stderr)),
		driver.WithJournal(j),
	)
	if err != nil {
		return err
	}
	report("mount", rec.last, mem)

	for _, s := range demoSteps {
		rec.last = nil
		if err := s.run(ctx, d); err != nil {
			return err
		}
		report(s.name, rec.last, mem)
	}

	rec.last = nil
	if err := d.Close(ctx); err != nil {
		return err
	}
	report("close", rec.last, mem)

	success("%d batches journaled", j.Count())
	if out != "" {
		if err := os.WriteFile(out, journal.Bundle(j.Entries()), 0o644); err != nil {
			return errors.New("M051").Wrap(err).WithDetail("Could not write " + out)
		}
		success("Wrote %s", out)
	}
	if archive {
		return upload(ctx, cfg, j)
	}
	return nil
}

func report(step string, cl vdom.ChangeList, mem *surface.Memory) {
	if len(cl) == 0 {
		success("%s: no changes", step)
	} else {
		success("%s: %d changes (%s)", step, len(cl), opSummary(cl))
	}
	html := mem.HTML()
	if html == "" {
		html = "(empty)"
	}
	info("%s", html)
	fmt.Println()
}

// opSummary lists the non-zero op counts of cl.
func opSummary(cl vdom.ChangeList) string {
	var parts []string
	for op, n := range cl.Stats() {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", vdom.Op(op), n))
		}
	}
	return strings.Join(parts, ", ")
}

func upload(ctx context.Context, cfg *config.Config, j *journal.Journal) error {
	if cfg.Journal.Bucket == "" {
		warn("journal.bucket is not set, skipping archive")
		return nil
	}
	a := journal.NewS3Archive(newS3Client(cfg), cfg.Journal.Bucket, cfg.Journal.Prefix)
	key, err := a.Upload(ctx, j)
	if err != nil {
		return errors.New("M031").Wrap(err).
			WithSuggestion("Set AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_REGION")
	}
	success("Archived to s3://%s/%s", cfg.Journal.Bucket, key)
	return nil
}

// newS3Client builds an S3 client from journal.region and the standard
// AWS environment variables.
func newS3Client(cfg *config.Config) *s3.Client {
	region := cfg.Journal.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	return s3.New(s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	})
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}
