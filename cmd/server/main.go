package main

import (
	"log"

	server "github.com/edvora/edvora-api/cmd"
)

func main() {
	cfg, appCfg, err := server.InitConfig()
	if err != nil {
		log.Fatalf("Failed to initialize configuration: %v", err)
	}

	db, redisCache, err := server.SetupDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to setup database: %v", err)
	}
	defer db.Close()

	svcs, stopWorker := server.SetupServices(db, redisCache, cfg)
	defer stopWorker()

	app := server.SetupFiberApp(db, svcs, cfg)

	addr := server.ListenAddress(appCfg)
	log.Printf("Edvora API listening on %s (env: %s)", addr, cfg.Env.CurrentEnv)
	log.Fatal(app.Listen(addr))
}
