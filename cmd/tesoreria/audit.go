package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/taller-api/internal/application/treasury"
	"github.com/jhoicas/taller-api/internal/domain/ledger"
	"github.com/jhoicas/taller-api/internal/infrastructure/postgres"
)

// errAuditMismatch alguna cuenta no coincide con su libro; el proceso sale con código 1.
var errAuditMismatch = errors.New("hay cuentas con saldo inconsistente")

var auditCmd = &cobra.Command{
	Use:   "audit [account-id]",
	Short: "Reconstruir saldos desde el libro de movimientos",
	Long: `Recorre los movimientos de cada cuenta en orden y compara el saldo resultante
con el almacenado. Sin argumentos audita todas las cuentas.

Sale con código distinto de cero si alguna cuenta no coincide.`,
	Example: `  tesoreria audit
  tesoreria audit 3f0c...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().Duration("timeout", 2*time.Minute, "Tiempo máximo de la auditoría")
}

func runAudit(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	uc := treasury.NewLedgerUseCase(postgres.NewTxRunner(pool, cfg.Store.MaxRetries, log), time.Now, log)
	return auditReport(ctx, uc, args, cmd.OutOrStdout())
}

// auditReport imprime una fila por cuenta; devuelve errAuditMismatch si alguna no coincide.
func auditReport(ctx context.Context, uc *treasury.LedgerUseCase, args []string, out io.Writer) error {
	var results []ledger.AuditResult
	if len(args) == 1 {
		res, err := uc.Audit(ctx, args[0])
		if err != nil {
			return err
		}
		results = append(results, res)
	} else {
		all, err := uc.AuditAll(ctx)
		if err != nil {
			return err
		}
		results = all
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CUENTA\tALMACENADO\tLIBRO\tESTADO")
	mismatch := false
	for _, r := range results {
		status := "ok"
		if !r.Consistent() {
			status = "INCONSISTENTE"
			mismatch = true
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.AccountID, r.Stored.StringFixed(2), r.Replayed.StringFixed(2), status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if mismatch {
		return errAuditMismatch
	}
	return nil
}
