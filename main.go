package main

import (
	"context"
	"flag"
	"log"

	"inmogest/config"
	"inmogest/logging"
	"inmogest/repositories"
	"inmogest/services"
	"inmogest/storage"
)

var (
	dbPath = flag.String("db", "", "Override SQLite database path")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.DBEngine = config.EngineSQLite
		cfg.SQLitePath = *dbPath
	}

	logFile, err := logging.Setup(cfg.LogLevel, cfg.LogPath)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	lg := logging.L()
	lg.Infof("Starting %s...", cfg.AppName)

	ctx := context.Background()

	store, err := storage.Open(cfg)
	if err != nil {
		lg.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()
	lg.Infof("Database ready (%s)", cfg.DBEngine)

	terrenoRepo := repositories.NewTerrenoRepository(store)
	edificacionRepo := repositories.NewEdificacionRepository(store)
	linkRepo := repositories.NewEdificacionTerrenoRepository(store)
	loteoRepo := repositories.NewLoteoRepository(store)
	reservaRepo := repositories.NewReservaRepository(store)
	usuarioRepo := repositories.NewUsuarioRepository(store)

	terrenos := services.NewTerrenoService(terrenoRepo)
	edificaciones := services.NewEdificacionService(edificacionRepo, terrenoRepo, linkRepo)
	loteos := services.NewLoteoService(loteoRepo, terrenoRepo)
	reservas := services.NewReservaService(reservaRepo, terrenoRepo, edificacionRepo)
	auth := services.NewAuthService(usuarioRepo, cfg.BcryptCost)

	lg.Info("Services initialized")

	if _, err := auth.EnsureAdmin(ctx, cfg.Admin); err != nil {
		lg.Fatalf("Failed to ensure admin account: %v", err)
	}

	resumenInventario(ctx, terrenos, edificaciones, loteos, reservas)
}

// resumenInventario logs a startup snapshot of the inventory.
func resumenInventario(
	ctx context.Context,
	terrenos *services.TerrenoService,
	edificaciones *services.EdificacionService,
	loteos *services.LoteoService,
	reservas *services.ReservaService,
) {
	lg := logging.L()

	ts, err := terrenos.Listar(ctx)
	if err != nil {
		lg.Errorf("Failed to list terrenos: %v", err)
		return
	}
	disponibles, err := terrenos.ListarDisponibles(ctx)
	if err != nil {
		lg.Errorf("Failed to list terrenos disponibles: %v", err)
		return
	}
	es, err := edificaciones.Listar(ctx)
	if err != nil {
		lg.Errorf("Failed to list edificaciones: %v", err)
		return
	}
	ls, err := loteos.Listar(ctx)
	if err != nil {
		lg.Errorf("Failed to list loteos: %v", err)
		return
	}
	rs, err := reservas.Listar(ctx)
	if err != nil {
		lg.Errorf("Failed to list reservas: %v", err)
		return
	}

	lg.Infof("Inventario: %d terrenos (%d disponibles), %d edificaciones, %d loteos, %d reservas",
		len(ts), len(disponibles), len(es), len(ls), len(rs))
}
