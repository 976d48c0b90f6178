package main

import (
	"log"

	"github.com/m3rciful/maxbot/bots/maxbot"
	"github.com/m3rciful/maxbot/core/bootstrap"
	corecmd "github.com/m3rciful/maxbot/core/cmd"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		EnvFiles:          []string{".env"},
		Modules: func(res *bootstrap.Result) []bootstrap.Module {
			bot := maxbot.New(maxbot.Deps{
				BotID:    res.Config.Dialog.BotID,
				Sessions: res.Sessions,
				Profiles: res.Profiles,
				Engine:   res.Engine,
				Stats:    res.Stats,
				Now:      res.Now,
			})
			return []bootstrap.Module{bot}
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
