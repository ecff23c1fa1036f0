package contentcmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zenGate-Global/wedding-marketplace/apps/cli/cmd/cliutil"
	aboutservice "github.com/zenGate-Global/wedding-marketplace/domains/about/be/service"
	accountsservice "github.com/zenGate-Global/wedding-marketplace/domains/accounts/be/service"
	enquiriesservice "github.com/zenGate-Global/wedding-marketplace/domains/enquiries/be/service"
	heroextensionservice "github.com/zenGate-Global/wedding-marketplace/domains/heroextension/be/service"
	heroslidesservice "github.com/zenGate-Global/wedding-marketplace/domains/heroslides/be/service"
	processstepsservice "github.com/zenGate-Global/wedding-marketplace/domains/processsteps/be/service"
	testimonialsservice "github.com/zenGate-Global/wedding-marketplace/domains/testimonials/be/service"
	weddingsservice "github.com/zenGate-Global/wedding-marketplace/domains/weddings/be/service"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
)

// kind is one cached collection reachable from the CLI.
type kind struct {
	refresher content.Refresher
	list      func(ctx context.Context) (any, error)
}

func listOf[T content.Entity](svc content.CRUD[T]) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		return svc.GetAll(ctx, true)
	}
}

// catalog builds every kind over store, keyed by its route name.
func catalog(store docstore.Store, opts content.Options) map[string]kind {
	heroSlides := heroslidesservice.New(store, opts)
	testimonials := testimonialsservice.New(store, opts)
	about := aboutservice.New(store, opts)
	weddings := weddingsservice.New(store, opts)
	processSteps := processstepsservice.New(store, opts)
	heroExtension := heroextensionservice.New(store, opts)
	hotelEnquiries := enquiriesservice.NewHotel(store, enquiriesservice.Options{Options: opts})
	vendorEnquiries := enquiriesservice.NewVendor(store, enquiriesservice.Options{Options: opts})
	accounts := accountsservice.New(store, opts)

	return map[string]kind{
		"hero-slides":      {heroSlides, listOf[heroslidesservice.HeroSlide](heroSlides)},
		"testimonials":     {testimonials, listOf[testimonialsservice.Testimonial](testimonials)},
		"about":            {about, listOf[aboutservice.AboutContent](about)},
		"weddings":         {weddings, listOf[weddingsservice.Wedding](weddings)},
		"process-steps":    {processSteps, listOf[processstepsservice.ProcessStep](processSteps)},
		"hero-extension":   {heroExtension, listOf[heroextensionservice.Image](heroExtension)},
		"hotel-enquiries":  {hotelEnquiries, listOf[enquiriesservice.HotelEnquiry](hotelEnquiries)},
		"vendor-enquiries": {vendorEnquiries, listOf[enquiriesservice.VendorEnquiry](vendorEnquiries)},
		"accounts": {accounts, func(ctx context.Context) (any, error) {
			return accounts.List(ctx, true)
		}},
	}
}

func kindNames(kinds map[string]kind) []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup(kinds map[string]kind, name string) (kind, error) {
	k, ok := kinds[name]
	if !ok {
		return kind{}, fmt.Errorf("unknown kind %q (use one of %s)", name, strings.Join(kindNames(kinds), ", "))
	}
	return k, nil
}

// Command groups content cache helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Content utilities (list, refresh and seed cached kinds)",
	}

	cmd.AddCommand(listCommand())
	cmd.AddCommand(refreshCommand())
	cmd.AddCommand(seedCommand())
	return cmd
}

func listCommand() *cobra.Command {
	var (
		backend  string
		kindName string
	)

	c := &cobra.Command{
		Use:   "list",
		Short: "Print every document of a kind as JSON, in canonical order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, err := cliutil.Open(ctx, backend)
			if err != nil {
				return err
			}
			defer env.Close()

			k, err := lookup(catalog(env.Store, content.Options{Logger: env.Logger}), kindName)
			if err != nil {
				return err
			}
			items, err := k.list(ctx)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		},
	}

	c.Flags().StringVar(&backend, "store", "", "override STORE_BACKEND (firestore, postgres)")
	c.Flags().StringVar(&kindName, "kind", "", "kind to list (e.g. hero-slides, testimonials)")
	_ = c.MarkFlagRequired("kind")
	return c
}

func refreshCommand() *cobra.Command {
	var (
		backend  string
		kindName string
	)

	c := &cobra.Command{
		Use:   "refresh",
		Short: "Load one kind, or every kind when --kind is omitted, and report failures",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, err := cliutil.Open(ctx, backend)
			if err != nil {
				return err
			}
			defer env.Close()

			kinds := catalog(env.Store, content.Options{Logger: env.Logger})
			names := kindNames(kinds)
			if kindName != "" {
				if _, err := lookup(kinds, kindName); err != nil {
					return err
				}
				names = []string{kindName}
			}

			var failed []string
			for _, name := range names {
				if err := kinds[name].refresher.Refresh(ctx); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", name, err)
					failed = append(failed, name)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", name)
			}
			if len(failed) > 0 {
				return fmt.Errorf("refresh failed for %s", strings.Join(failed, ", "))
			}
			return nil
		},
	}

	c.Flags().StringVar(&backend, "store", "", "override STORE_BACKEND (firestore, postgres)")
	c.Flags().StringVar(&kindName, "kind", "", "kind to refresh; all kinds when empty")
	return c
}
