package bdd

import (
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/player-soap-service/test/bdd/steps"
)

func TestPlayerAggregate(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			steps.InitializePlayerAggregateScenario(sc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/application/player_aggregate.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run player aggregate tests")
	}
}
