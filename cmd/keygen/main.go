package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oasislabs/ledger-gateway/wallet"
)

func run(children uint, salt string) error {
	mnemonic, err := wallet.NewMnemonic()
	if err != nil {
		return err
	}

	w := wallet.New(mnemonic, wallet.Props{Salt: salt})
	for i := uint(0); i < children; i++ {
		if _, err := w.NewAddressAtChild(wallet.ChildNumber(i)); err != nil {
			return err
		}
	}

	fmt.Println(mnemonic.String())
	for i, address := range w.Addresses() {
		fmt.Printf("%d %s\n", i, address.Hex())
	}

	return nil
}

func main() {
	var (
		children uint
		salt     string
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "generates a mnemonic for the gateway's shared wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(children, salt)
		},
	}
	cmd.Flags().UintVar(&children, "children", 1, "number of child addresses to print")
	cmd.Flags().StringVar(&salt, "salt", wallet.DefaultSeedSalt, "salt used to derive the wallet seed")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
