package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jask/gatecharter/internal/service"
)

type libraryCtx struct {
	ctx context.Context
	lib *service.SessionLibrary
}

func withLibrary(cmd *cobra.Command, fn func(libraryCtx) error) error {
	e, err := loadEnv("")
	if err != nil {
		return err
	}
	defer e.log.Sync()
	lib, closeDB, err := e.openLibrary()
	if err != nil {
		return err
	}
	defer closeDB()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(libraryCtx{ctx: ctx, lib: lib})
}
