package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/taller-api/internal/domain/numbering"
)

var formatNumberCmd = &cobra.Command{
	Use:     "format-number LETTER POS SEQ",
	Short:   "Formatear un número de comprobante (L-PPPP-NNNNNNNN)",
	Example: `  tesoreria format-number B 1 42   # B-0001-00000042`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := formatNumber(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatNumberCmd)
}

func formatNumber(letter, pos, seq string) (string, error) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	pointOfSale, err := strconv.Atoi(pos)
	if err != nil {
		return "", fmt.Errorf("punto de venta inválido %q", pos)
	}
	if err := numbering.ValidateHeader(letter, pointOfSale); err != nil {
		return "", err
	}
	sequence, _, err := numbering.ParseManual(seq)
	if err != nil {
		return "", err
	}
	return numbering.Format(letter, pointOfSale, sequence), nil
}
