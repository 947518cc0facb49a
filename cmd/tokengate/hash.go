package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MrEthical07/tokengate"
	"github.com/MrEthical07/tokengate/password"
	"github.com/spf13/cobra"
)

var (
	hashAlgorithm string
	hashCost      int
)

var hashCmd = &cobra.Command{
	Use:   "hash [password]",
	Short: "Print a password hash for enrolling a credential",
	Long: `Hashes a password with the configured algorithm. The password is read
from the first argument, or from the first line of stdin when omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, err := readPassword(args)
		if err != nil {
			return err
		}

		verifier, err := newHashVerifier(hashAlgorithm, hashCost)
		if err != nil {
			return err
		}

		hash, err := verifier.Hash(plain)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	defaults := tokengate.DefaultConfig().Password
	hashCmd.Flags().StringVar(&hashAlgorithm, "algorithm", defaults.Algorithm, "bcrypt or argon2id")
	hashCmd.Flags().IntVar(&hashCost, "cost", defaults.BcryptCost, "bcrypt cost")
}

func readPassword(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New("no password given")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newHashVerifier(algorithm string, cost int) (tokengate.PasswordVerifier, error) {
	switch algorithm {
	case tokengate.PasswordBcrypt:
		return password.NewBcrypt(cost)
	case tokengate.PasswordArgon2id:
		return password.NewArgon2(password.DefaultArgon2Config())
	default:
		return nil, fmt.Errorf("unknown algorithm %q", algorithm)
	}
}
