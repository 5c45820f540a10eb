package steps

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/player-soap-service/internal/adapters/persistence"
	"github.com/andrescamacho/player-soap-service/internal/application/common"
	"github.com/andrescamacho/player-soap-service/internal/application/player/commands"
	"github.com/andrescamacho/player-soap-service/internal/application/player/queries"
	"github.com/andrescamacho/player-soap-service/internal/application/setup"
	"github.com/andrescamacho/player-soap-service/internal/domain/player"
	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
	"github.com/andrescamacho/player-soap-service/test/helpers"
)

// playerAggregateContext holds state for player aggregate scenarios
type playerAggregateContext struct {
	mediator common.Mediator

	draft        player.Draft
	bulkDrafts   []player.Draft
	current      *player.Player
	fetched      *player.Player
	listed       []*player.Player
	deletedCount int64
	err          error
}

func (pc *playerAggregateContext) reset() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}

	registry := setup.NewHandlerRegistry(persistence.NewGormPlayerRepository(helpers.SharedTestDB))
	med, err := registry.CreateConfiguredMediator()
	if err != nil {
		return err
	}

	pc.mediator = med
	pc.draft = player.Draft{}
	pc.bulkDrafts = nil
	pc.current = nil
	pc.fetched = nil
	pc.listed = nil
	pc.deletedCount = 0
	pc.err = nil
	return nil
}

func (pc *playerAggregateContext) send(request common.Request) (common.Response, error) {
	return pc.mediator.Send(context.Background(), request)
}

// Given

func (pc *playerAggregateContext) aPlayerDraft(name, country, club, position string, age int) error {
	pc.draft = player.Draft{
		Name:     name,
		Country:  country,
		Club:     club,
		Position: player.Position(position),
		Age:      age,
	}
	return nil
}

func (pc *playerAggregateContext) theDraftHasStatistics(table *godog.Table) error {
	stats, err := statisticDraftsFromTable(table)
	if err != nil {
		return err
	}
	pc.draft.Statistics = stats
	return nil
}

func (pc *playerAggregateContext) theDraftHasAwards(table *godog.Table) error {
	awards := make([]player.AwardDraft, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		year, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return fmt.Errorf("invalid award year %q", row.Cells[1].Value)
		}
		awards = append(awards, player.AwardDraft{
			AwardName: row.Cells[0].Value,
			Year:      player.IntPtr(year),
			Category:  row.Cells[2].Value,
		})
	}
	pc.draft.Awards = awards
	return nil
}

func (pc *playerAggregateContext) anExistingPlayerAt(name, club string) error {
	response, err := pc.send(&commands.CreatePlayerCommand{Draft: helpers.CreateTestDraft(name, club)})
	if err != nil {
		return fmt.Errorf("failed to seed player %s: %w", name, err)
	}
	pc.current = response.(*commands.CreatePlayerResponse).Player
	return nil
}

func (pc *playerAggregateContext) existingPlayersAt(count int, club string) error {
	for _, d := range helpers.CreateTestDrafts(count, club) {
		if _, err := pc.send(&commands.CreatePlayerCommand{Draft: d}); err != nil {
			return fmt.Errorf("failed to seed player %s: %w", d.Name, err)
		}
	}
	return nil
}

func (pc *playerAggregateContext) aBulkBatch(table *godog.Table) error {
	pc.bulkDrafts = nil
	for _, row := range table.Rows[1:] {
		age, err := strconv.Atoi(row.Cells[2].Value)
		if err != nil {
			return fmt.Errorf("invalid age %q", row.Cells[2].Value)
		}
		d := helpers.CreateTestDraft(row.Cells[0].Value, row.Cells[1].Value)
		d.Age = age
		pc.bulkDrafts = append(pc.bulkDrafts, d)
	}
	return nil
}

// When

func (pc *playerAggregateContext) iCreateThePlayer() error {
	response, err := pc.send(&commands.CreatePlayerCommand{Draft: pc.draft})
	pc.err = err
	if err == nil {
		pc.current = response.(*commands.CreatePlayerResponse).Player
	}
	return nil
}

func (pc *playerAggregateContext) iCreateTheSamePlayerAgain() error {
	_, pc.err = pc.send(&commands.CreatePlayerCommand{Draft: pc.draft})
	return nil
}

func (pc *playerAggregateContext) iReplaceTheStatisticsWith(table *godog.Table) error {
	stats, err := statisticDraftsFromTable(table)
	if err != nil {
		return err
	}
	response, err := pc.send(&commands.UpdatePlayerStatsCommand{PlayerID: pc.current.ID, Statistics: stats})
	pc.err = err
	if err == nil {
		pc.current = response.(*commands.UpdatePlayerStatsResponse).Player
	}
	return nil
}

func (pc *playerAggregateContext) iUpdateThePlayerWithoutStatisticsOrAwards(name string, age int) error {
	d := helpers.CreateTestDraft(name, pc.current.Club)
	d.Country = pc.current.Country
	d.Position = pc.current.Position
	d.Age = age

	response, err := pc.send(&commands.UpdatePlayerCommand{PlayerID: pc.current.ID, Draft: d})
	pc.err = err
	if err == nil {
		pc.current = response.(*commands.UpdatePlayerResponse).Player
	}
	return nil
}

func (pc *playerAggregateContext) iRenameThePlayerTo(name string) error {
	d := helpers.CreateTestDraft(name, pc.current.Club)
	_, pc.err = pc.send(&commands.UpdatePlayerCommand{PlayerID: pc.current.ID, Draft: d})
	return nil
}

func (pc *playerAggregateContext) iDeleteThePlayer() error {
	_, pc.err = pc.send(&commands.DeletePlayerCommand{PlayerID: pc.current.ID})
	return nil
}

func (pc *playerAggregateContext) iDeletePlayer(id int) error {
	_, pc.err = pc.send(&commands.DeletePlayerCommand{PlayerID: id})
	return nil
}

func (pc *playerAggregateContext) iBulkCreateTheBatch() error {
	response, err := pc.send(&commands.BulkCreatePlayersCommand{Drafts: pc.bulkDrafts})
	pc.err = err
	if err == nil {
		pc.listed = response.(*commands.BulkCreatePlayersResponse).Players
	}
	return nil
}

func (pc *playerAggregateContext) iDeleteAllPlayerData() error {
	response, err := pc.send(&commands.DeleteAllPlayersCommand{})
	pc.err = err
	if err == nil {
		pc.deletedCount = response.(*commands.DeleteAllPlayersResponse).DeletedCount
	}
	return nil
}

func (pc *playerAggregateContext) iFetchThePlayer() error {
	response, err := pc.send(&queries.GetPlayerQuery{PlayerID: pc.current.ID})
	pc.err = err
	pc.fetched = nil
	if err == nil {
		pc.fetched = response.(*queries.GetPlayerResponse).Player
	}
	return nil
}

// Then

func (pc *playerAggregateContext) theOperationShouldSucceed() error {
	if pc.err != nil {
		return fmt.Errorf("expected success, got %v", pc.err)
	}
	return nil
}

func (pc *playerAggregateContext) theOperationShouldFailWith(errorType, message string) error {
	if pc.err == nil {
		return fmt.Errorf("expected %s, got success", errorType)
	}
	if got := shared.ErrorType(pc.err); got != errorType {
		return fmt.Errorf("expected %s, got %s (%v)", errorType, got, pc.err)
	}
	if message != "" && shared.PublicMessage(pc.err) != message {
		return fmt.Errorf("expected message %q, got %q", message, shared.PublicMessage(pc.err))
	}
	return nil
}

func (pc *playerAggregateContext) thePlayerShouldHaveAnAssignedID() error {
	if pc.current == nil || pc.current.ID <= 0 {
		return fmt.Errorf("expected an assigned player id")
	}
	return nil
}

func (pc *playerAggregateContext) theFetchedPlayerShouldHaveStatistics(table *godog.Table) error {
	if err := pc.iFetchThePlayer(); err != nil {
		return err
	}
	if pc.err != nil {
		return pc.err
	}

	want := make([]string, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.Value
		}
		want = append(want, fmt.Sprint(cells))
	}

	got := make([]string, 0, len(pc.fetched.Statistics))
	for _, s := range pc.fetched.Statistics {
		got = append(got, fmt.Sprint([]string{
			s.Season, strconv.Itoa(s.Goals), strconv.Itoa(s.Assists), strconv.Itoa(s.Matches),
			strconv.Itoa(s.YellowCards), strconv.Itoa(s.RedCards), strconv.Itoa(s.MinutesPlayed),
		}))
	}

	return sameElements("statistics", want, got)
}

func (pc *playerAggregateContext) theFetchedPlayerShouldHaveAwards(table *godog.Table) error {
	if err := pc.iFetchThePlayer(); err != nil {
		return err
	}
	if pc.err != nil {
		return pc.err
	}

	want := make([]string, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		want = append(want, fmt.Sprintf("%s|%s|%s", row.Cells[0].Value, row.Cells[1].Value, row.Cells[2].Value))
	}
	got := make([]string, 0, len(pc.fetched.Awards))
	for _, a := range pc.fetched.Awards {
		got = append(got, fmt.Sprintf("%s|%d|%s", a.AwardName, a.Year, a.Category))
	}

	return sameElements("awards", want, got)
}

func (pc *playerAggregateContext) theFetchedPlayerShouldHaveNoStatisticsAndNoAwards() error {
	if err := pc.iFetchThePlayer(); err != nil {
		return err
	}
	if pc.err != nil {
		return pc.err
	}
	if pc.fetched.Statistics == nil || pc.fetched.Awards == nil {
		return fmt.Errorf("expected empty, non-nil collections")
	}
	if len(pc.fetched.Statistics) != 0 || len(pc.fetched.Awards) != 0 {
		return fmt.Errorf("expected no statistics and no awards, got %d and %d",
			len(pc.fetched.Statistics), len(pc.fetched.Awards))
	}
	return nil
}

func (pc *playerAggregateContext) theFetchedPlayerShouldBeNamed(name string, age int) error {
	if err := pc.iFetchThePlayer(); err != nil {
		return err
	}
	if pc.err != nil {
		return pc.err
	}
	if pc.fetched.Name != name || pc.fetched.Age != age {
		return fmt.Errorf("expected %s aged %d, got %s aged %d", name, age, pc.fetched.Name, pc.fetched.Age)
	}
	return nil
}

func (pc *playerAggregateContext) fetchingThePlayerShouldFailWith(errorType string) error {
	if err := pc.iFetchThePlayer(); err != nil {
		return err
	}
	return pc.theOperationShouldFailWith(errorType, "")
}

func (pc *playerAggregateContext) theStoreShouldContainPlayers(count int) error {
	response, err := pc.send(&queries.ListPlayersQuery{})
	if err != nil {
		return err
	}
	players := response.(*queries.ListPlayersResponse).Players
	if len(players) != count {
		return fmt.Errorf("expected %d players, got %d", count, len(players))
	}
	return nil
}

func (pc *playerAggregateContext) theStoreShouldContainPlayersNamedAt(count int, name, club string) error {
	response, err := pc.send(&queries.ListPlayersQuery{})
	if err != nil {
		return err
	}
	matches := 0
	for _, p := range response.(*queries.ListPlayersResponse).Players {
		if p.Name == name && p.Club == club {
			matches++
		}
	}
	if matches != count {
		return fmt.Errorf("expected %d players named %s at %s, got %d", count, name, club, matches)
	}
	return nil
}

func (pc *playerAggregateContext) theBulkResultShouldListPlayersInOrder(table *godog.Table) error {
	if len(pc.listed) != len(table.Rows)-1 {
		return fmt.Errorf("expected %d created players, got %d", len(table.Rows)-1, len(pc.listed))
	}
	for i, row := range table.Rows[1:] {
		if pc.listed[i].Name != row.Cells[0].Value {
			return fmt.Errorf("position %d: expected %s, got %s", i+1, row.Cells[0].Value, pc.listed[i].Name)
		}
	}
	return nil
}

func (pc *playerAggregateContext) theDeletedCountShouldBe(expected int) error {
	if pc.deletedCount != int64(expected) {
		return fmt.Errorf("expected deleted count %d, got %d", expected, pc.deletedCount)
	}
	return nil
}

func statisticDraftsFromTable(table *godog.Table) ([]player.StatisticDraft, error) {
	header := table.Rows[0].Cells
	stats := make([]player.StatisticDraft, 0, len(table.Rows)-1)

	for _, row := range table.Rows[1:] {
		var s player.StatisticDraft
		for i, cell := range row.Cells {
			column := header[i].Value
			if column == "season" {
				s.Season = cell.Value
				continue
			}
			if cell.Value == "" {
				continue
			}
			n, err := strconv.Atoi(cell.Value)
			if err != nil {
				return nil, fmt.Errorf("invalid %s %q", column, cell.Value)
			}
			switch column {
			case "goals":
				s.Goals = player.IntPtr(n)
			case "assists":
				s.Assists = player.IntPtr(n)
			case "matches":
				s.Matches = player.IntPtr(n)
			case "yellowCards":
				s.YellowCards = player.IntPtr(n)
			case "redCards":
				s.RedCards = player.IntPtr(n)
			case "minutesPlayed":
				s.MinutesPlayed = player.IntPtr(n)
			default:
				return nil, fmt.Errorf("unknown statistics column %q", column)
			}
		}
		stats = append(stats, s)
	}
	return stats, nil
}

// sameElements compares two multisets of rendered rows
func sameElements(what string, want, got []string) error {
	sort.Strings(want)
	sort.Strings(got)
	if fmt.Sprint(want) != fmt.Sprint(got) {
		return fmt.Errorf("%s mismatch:\nexpected %v\n     got %v", what, want, got)
	}
	return nil
}

// InitializePlayerAggregateScenario registers player aggregate step definitions
func InitializePlayerAggregateScenario(sc *godog.ScenarioContext) {
	pc := &playerAggregateContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		return ctx, pc.reset()
	})

	// Given
	sc.Step(`^a player draft "([^"]*)" from "([^"]*)" at "([^"]*)" playing (\w+) aged (\d+)$`, pc.aPlayerDraft)
	sc.Step(`^the draft has statistics:$`, pc.theDraftHasStatistics)
	sc.Step(`^the draft has awards:$`, pc.theDraftHasAwards)
	sc.Step(`^an existing player "([^"]*)" at "([^"]*)"$`, pc.anExistingPlayerAt)
	sc.Step(`^(\d+) existing players at "([^"]*)"$`, pc.existingPlayersAt)
	sc.Step(`^a bulk batch:$`, pc.aBulkBatch)

	// When
	sc.Step(`^I create the player$`, pc.iCreateThePlayer)
	sc.Step(`^I create the same player again$`, pc.iCreateTheSamePlayerAgain)
	sc.Step(`^I replace the player's statistics with:$`, pc.iReplaceTheStatisticsWith)
	sc.Step(`^I update the player to "([^"]*)" aged (\d+) without statistics or awards$`, pc.iUpdateThePlayerWithoutStatisticsOrAwards)
	sc.Step(`^I rename the player to "([^"]*)"$`, pc.iRenameThePlayerTo)
	sc.Step(`^I delete the player$`, pc.iDeleteThePlayer)
	sc.Step(`^I delete player (\d+)$`, pc.iDeletePlayer)
	sc.Step(`^I bulk create the batch$`, pc.iBulkCreateTheBatch)
	sc.Step(`^I delete all player data$`, pc.iDeleteAllPlayerData)

	// Then
	sc.Step(`^the operation should succeed$`, pc.theOperationShouldSucceed)
	sc.Step(`^the operation should fail with (\w+) "([^"]*)"$`, pc.theOperationShouldFailWith)
	sc.Step(`^the player should have an assigned id$`, pc.thePlayerShouldHaveAnAssignedID)
	sc.Step(`^fetching the player should return statistics:$`, pc.theFetchedPlayerShouldHaveStatistics)
	sc.Step(`^fetching the player should return awards:$`, pc.theFetchedPlayerShouldHaveAwards)
	sc.Step(`^fetching the player should return no statistics and no awards$`, pc.theFetchedPlayerShouldHaveNoStatisticsAndNoAwards)
	sc.Step(`^fetching the player should return "([^"]*)" aged (\d+)$`, pc.theFetchedPlayerShouldBeNamed)
	sc.Step(`^fetching the player should fail with (\w+)$`, pc.fetchingThePlayerShouldFailWith)
	sc.Step(`^the store should contain (\d+) players?$`, pc.theStoreShouldContainPlayers)
	sc.Step(`^the store should contain (\d+) players? named "([^"]*)" at "([^"]*)"$`, pc.theStoreShouldContainPlayersNamedAt)
	sc.Step(`^the bulk result should list in order:$`, pc.theBulkResultShouldListPlayersInOrder)
	sc.Step(`^the deleted count should be (\d+)$`, pc.theDeletedCountShouldBe)
}
