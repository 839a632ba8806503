// Package auth manages the encrypted credential store.
package auth

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crmarques/bloxsync/credentials"
	"github.com/crmarques/bloxsync/debugctx"
	"github.com/crmarques/bloxsync/internal/cli/common"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored platform credentials",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newLoginCommand(deps, globalFlags),
		newLogoutCommand(deps, globalFlags),
		newStatusCommand(deps, globalFlags),
	)

	return command
}

func newLoginCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "login",
		Short: "Encrypt and store the API key and optional cookie",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			openStore, err := common.RequireCredentialStoreOpener(deps)
			if err != nil {
				return err
			}

			apiKey, err := common.PromptSecret(command, "Open Cloud API key", true)
			if err != nil {
				return err
			}
			cookie, err := common.PromptSecret(command, "Security cookie (optional, Enter to skip)", false)
			if err != nil {
				return err
			}

			passphrase, err := resolvePassphraseForSave(command)
			if err != nil {
				return err
			}

			store, err := openStore(passphrase)
			if err != nil {
				return err
			}
			if err := store.Save(command.Context(), credentials.Credentials{APIKey: apiKey, Cookie: cookie}); err != nil {
				return err
			}

			debugctx.Printf(command.Context(), "auth login stored credentials cookie_present=%t", cookie != "")

			message := "credentials encrypted and saved"
			if deps.CredentialStorePath != "" {
				message = fmt.Sprintf("credentials encrypted and saved to %s", deps.CredentialStorePath)
			}
			return common.WriteText(command, globalFlags.Output, message)
		},
	}

	return command
}

func newLogoutCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			openStore, err := common.RequireCredentialStoreOpener(deps)
			if err != nil {
				return err
			}

			// Clearing never reads the envelope, so no passphrase is needed.
			store, err := openStore("")
			if err != nil {
				return err
			}
			if err := store.Clear(command.Context()); err != nil {
				return err
			}

			return common.WriteText(command, globalFlags.Output, "stored credentials removed")
		},
	}

	return command
}

type statusView struct {
	APIKey       string `json:"api_key" yaml:"api-key"`
	Cookie       string `json:"cookie" yaml:"cookie"`
	StorePresent bool   `json:"store_present" yaml:"store-present"`
	StorePath    string `json:"store_path,omitempty" yaml:"store-path,omitempty"`
}

func newStatusCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "status",
		Short: "Show where each credential would come from",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			openStore, err := common.RequireCredentialStoreOpener(deps)
			if err != nil {
				return err
			}

			resolution := credentials.FromEnv()

			store, err := openStore(strings.TrimSpace(os.Getenv(credentials.PassphraseEnvVar)))
			if err != nil {
				return err
			}
			storePresent := store.Exists()

			// With the passphrase exported we can also say which gaps the
			// store would fill.
			if storePresent && !resolution.Complete() && os.Getenv(credentials.PassphraseEnvVar) != "" {
				merged, mergeErr := resolution.MergeStore(command.Context(), store)
				if mergeErr != nil {
					return mergeErr
				}
				resolution = merged
			}

			value := statusView{
				APIKey:       string(resolution.APIKeySource),
				Cookie:       string(resolution.CookieSource),
				StorePresent: storePresent,
				StorePath:    deps.CredentialStorePath,
			}
			return common.WriteOutput(command, globalFlags.Output, value, renderStatusText)
		},
	}

	return command
}

func resolvePassphraseForSave(command *cobra.Command) (string, error) {
	if passphrase := strings.TrimSpace(os.Getenv(credentials.PassphraseEnvVar)); passphrase != "" {
		return passphrase, nil
	}

	passphrase, err := common.PromptSecret(command, "Store passphrase", true)
	if err != nil {
		return "", err
	}
	confirmation, err := common.PromptSecret(command, "Confirm passphrase", true)
	if err != nil {
		return "", err
	}
	if passphrase != confirmation {
		return "", common.ValidationError("passphrases do not match", nil)
	}
	return passphrase, nil
}

func renderStatusText(w io.Writer, value statusView) error {
	if _, err := fmt.Fprintf(w, "api key: %s\n", value.APIKey); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "cookie:  %s\n", value.Cookie); err != nil {
		return err
	}

	storeNote := "absent"
	if value.StorePresent {
		storeNote = "present"
	}
	if value.StorePath != "" {
		storeNote = fmt.Sprintf("%s (%s)", storeNote, value.StorePath)
	}
	_, err := fmt.Fprintf(w, "store:   %s\n", storeNote)
	return err
}
