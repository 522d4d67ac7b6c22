package main

import (
	"context"
	"os"

	config "gitlab.com/maplesense1/mpt.device_seeder/src/production/MPT.Config"
	container "gitlab.com/maplesense1/mpt.device_seeder/src/production/MPT.Container"
	"gitlab.com/maplesense1/mpt.device_seeder/src/production/MPT.SeederService/commands"
)

func main() {
	newContainer := func() (*container.SeederContainer, error) {
		return container.NewSeederContainer(config.DefaultEnvFile)
	}

	os.Exit(commands.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr, newContainer))
}
