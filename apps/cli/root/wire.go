package root

import (
	"github.com/zenGate-Global/wedding-marketplace/apps/cli/cmd/accounts"
	"github.com/zenGate-Global/wedding-marketplace/apps/cli/cmd/auth"
	"github.com/zenGate-Global/wedding-marketplace/apps/cli/cmd/contentcmd"
	"github.com/zenGate-Global/wedding-marketplace/apps/cli/cmd/store"
)

func init() {
	Root().AddCommand(auth.Command())
	Root().AddCommand(accounts.Command())
	Root().AddCommand(contentcmd.Command())
	Root().AddCommand(store.Command())
}
