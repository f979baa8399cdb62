package main

import (
	"flag"
	"log"

	"ams-portal/pkg/config"
	"ams-portal/pkg/database/postgresql"
	"ams-portal/seeders"
)

func main() {
	runReference := flag.Bool("reference", false, "seed reference data (priorities, categories, statuses, types)")
	runAdmin := flag.Bool("admin", false, "seed the bootstrap administrator")
	runAll := flag.Bool("all", false, "run all seeders")
	flag.Parse()

	if !*runReference && !*runAdmin && !*runAll {
		log.Println("no seeder selected")
		flag.PrintDefaults()
		return
	}

	cfg := config.New()
	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	if *runAll || *runReference {
		seeders.SeedReferenceData(dbPool)
	}
	if *runAll || *runAdmin {
		seeders.SeedAdmin(dbPool, cfg)
	}

	log.Println("seeding finished")
}
