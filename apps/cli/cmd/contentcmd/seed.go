package contentcmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zenGate-Global/wedding-marketplace/apps/cli/cmd/cliutil"
	aboutservice "github.com/zenGate-Global/wedding-marketplace/domains/about/be/service"
	heroextensionservice "github.com/zenGate-Global/wedding-marketplace/domains/heroextension/be/service"
	heroslidesservice "github.com/zenGate-Global/wedding-marketplace/domains/heroslides/be/service"
	processstepsservice "github.com/zenGate-Global/wedding-marketplace/domains/processsteps/be/service"
	testimonialsservice "github.com/zenGate-Global/wedding-marketplace/domains/testimonials/be/service"
	weddingsservice "github.com/zenGate-Global/wedding-marketplace/domains/weddings/be/service"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
)

// seedStep fills one kind; skipped is true when the kind already holds documents.
type seedStep struct {
	name string
	run  func(ctx context.Context) (created int, skipped bool, err error)
}

func seedList[T content.Entity](svc content.CRUD[T], items ...map[string]any) func(context.Context) (int, bool, error) {
	return func(ctx context.Context) (int, bool, error) {
		existing, err := svc.GetAll(ctx, true)
		if err != nil {
			return 0, false, err
		}
		if len(existing) > 0 {
			return 0, true, nil
		}
		for i, item := range items {
			if _, err := svc.Create(ctx, item); err != nil {
				return i, false, err
			}
		}
		return len(items), false, nil
	}
}

// seedPlan lists the demo content written by `content seed`. Enquiries and accounts are left alone.
func seedPlan(store docstore.Store, opts content.Options) []seedStep {
	heroExtension := heroextensionservice.New(store, opts)

	return []seedStep{
		{"hero-slides", seedList[heroslidesservice.HeroSlide](heroslidesservice.New(store, opts),
			map[string]any{"heading": "Say yes by the sea", "subheading": "Clifftop venues for up to 200 guests", "ctaText": "Explore venues", "ctaLink": "/venues"},
			map[string]any{"heading": "Intimate city weddings", "subheading": "Rooftops, libraries and private dining rooms"},
		)},
		{"testimonials", seedList[testimonialsservice.Testimonial](testimonialsservice.New(store, opts),
			map[string]any{"name": "Amelia & Tom", "message": "Every detail was handled for us.", "location": "Lisbon", "rating": 5, "order": 1},
			map[string]any{"name": "Priya & Sam", "message": "We booked our venue and florist in one afternoon.", "rating": 5, "order": 2},
		)},
		{"about", seedList[aboutservice.AboutContent](aboutservice.New(store, opts),
			map[string]any{"title": "About us", "description": "We connect couples with hotels and vendors that host weddings.", "highlights": []string{"Verified venues", "No booking fees"}},
		)},
		{"weddings", seedList[weddingsservice.Wedding](weddingsservice.New(store, opts),
			map[string]any{"title": "A garden wedding in Sintra", "coupleNames": "Amelia & Tom", "location": "Sintra", "date": "2025-06-14", "featured": true},
		)},
		{"process-steps", seedList[processstepsservice.ProcessStep](processstepsservice.New(store, opts),
			map[string]any{"title": "Tell us about your day", "order": 1},
			map[string]any{"title": "Compare venues", "order": 2},
			map[string]any{"title": "Send an enquiry", "order": 3},
		)},
		{"hero-extension", func(ctx context.Context) (int, bool, error) {
			if _, err := heroExtension.GetContent(ctx); err == nil {
				return 0, true, nil
			} else if !errors.Is(err, content.ErrNotFound) {
				return 0, false, err
			}
			_, err := heroExtension.UpsertContent(ctx, map[string]any{
				"title":      "Plan it all in one place",
				"buttonText": "Start planning",
				"buttonLink": "/enquire",
			})
			if err != nil {
				return 0, false, err
			}
			return 1, false, nil
		}},
	}
}

func runSeed(ctx context.Context, out io.Writer, steps []seedStep) error {
	for _, step := range steps {
		created, skipped, err := step.run(ctx)
		if err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
		if skipped {
			fmt.Fprintf(out, "%-16s skipped (not empty)\n", step.name)
			continue
		}
		fmt.Fprintf(out, "%-16s %d created\n", step.name, created)
	}
	return nil
}

func seedCommand() *cobra.Command {
	var backend string

	c := &cobra.Command{
		Use:   "seed",
		Short: "Write demo content into empty kinds (kinds that already hold documents are skipped)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			env, err := cliutil.Open(ctx, backend)
			if err != nil {
				return err
			}
			defer env.Close()

			return runSeed(ctx, cmd.OutOrStdout(), seedPlan(env.Store, content.Options{Logger: env.Logger}))
		},
	}

	c.Flags().StringVar(&backend, "store", "", "override STORE_BACKEND (firestore, postgres)")
	return c
}
