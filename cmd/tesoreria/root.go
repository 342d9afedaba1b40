package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/taller-api/pkg/config"
	"github.com/jhoicas/taller-api/pkg/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "tesoreria",
	Short: "Herramientas de operación de taller-api",
	Long: `tesoreria agrupa las tareas de mantenimiento de taller-api:
migraciones del esquema, auditoría de saldos contra el libro de movimientos
y formato de numeración de comprobantes.

La configuración se lee de las mismas variables de entorno que la API (.env incluido).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute corre el comando raíz; cualquier error termina con código 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadEnv configuración y logger compartidos por los subcomandos que tocan la base.
func loadEnv() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	return cfg, log, nil
}
