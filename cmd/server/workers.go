package main

import (
	"context"
	"errors"
	"log"

	"github.com/spf13/cobra"

	"github.com/iliyamo/hotel-management/internal/config"
	"github.com/iliyamo/hotel-management/internal/database"
	"github.com/iliyamo/hotel-management/internal/queue"
	"github.com/iliyamo/hotel-management/internal/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create any missing tables from the embedded schema.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.LoadDB()
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		log.Printf("schema up to date (%d statements)", len(database.Statements()))
		return nil
	},
}

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Consume stay events into the stay log and guest notifications.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.LoadDB()
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return err
		}
		defer db.Close()

		c := &queue.Consumer{
			URL:    config.AMQPURL(),
			LogDir: config.StayLogDir(),
			Store:  repository.NewNotificationRepo(db),
		}
		log.Printf("stay-consumer: consuming %s", queue.StayQueue)
		if err := c.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		log.Printf("stay-consumer: stopped")
		return nil
	},
}
