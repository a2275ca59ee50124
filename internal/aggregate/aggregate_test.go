package aggregate

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armsatlas/internal/geo"
	"armsatlas/internal/model"
	"armsatlas/internal/register"
)

func testWorld() *geo.World {
	square := orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}
	return geo.NewWorld([]geo.Region{
		{Code: "BEL", Name: "Belgium", Continent: "Europe", Geometry: square},
		{Code: "IND", Name: "India", Continent: "Asia", Geometry: square},
		{Code: "RUS", Name: "Russia", Continent: "Europe", Geometry: square},
		{Code: "USA", Name: "United States of America", Continent: "North America", Geometry: square},
	})
}

func tradeRow(supplier, supplierCode, recipient, recipientCode string, year int, category string, units float64) model.TradeRecord {
	return model.TradeRecord{
		Supplier:      supplier,
		Recipient:     recipient,
		OrderYear:     year,
		Category:      category,
		Quantities:    map[string]float64{"Units": units},
		SupplierType:  model.RegionCountry,
		RecipientType: model.RegionCountry,
		SupplierCode:  supplierCode,
		RecipientCode: recipientCode,
	}
}

func singleTradeRegister() *register.Register {
	return register.NewRegister([]model.TradeRecord{
		tradeRow("Russia", "RUS", "India", "IND", 2020, "Aircraft", 50),
	})
}

func baseQuery(activity model.ActivityMode) model.Query {
	return model.Query{
		Activity:    activity,
		Category:    model.AllCategories,
		RegionTypes: model.RegionAll,
		Unit:        "Units",
	}
}

func rowByCode(t *testing.T, rows []model.AggregateRow, code string) model.AggregateRow {
	t.Helper()
	for _, row := range rows {
		if row.Code == code {
			return row
		}
	}
	t.Fatalf("no row for code %s", code)
	return model.AggregateRow{}
}

func TestAggregateGlobalSupplied(t *testing.T) {
	world := testWorld()
	q := baseQuery(model.ActivitySupplied)
	q.Year = 2020

	rows, err := Aggregate(singleTradeRegister(), world, q)
	require.NoError(t, err)
	require.Len(t, rows, world.Len())

	russia := rowByCode(t, rows, "RUS")
	assert.Equal(t, "Russia", russia.Region)
	assert.Equal(t, 50.0, russia.Value)
	assert.InDelta(t, 3.9318, russia.LogValue, 1e-4)

	for _, row := range rows {
		if row.Code == "RUS" {
			continue
		}
		assert.Zerof(t, row.Value, "region %s should be inactive", row.Code)
		assert.Zerof(t, row.LogValue, "region %s should be inactive", row.Code)
	}
}

func TestAggregateGlobalNetBalance(t *testing.T) {
	rows, err := Aggregate(singleTradeRegister(), testWorld(), baseQuery(model.ActivityNet))
	require.NoError(t, err)

	india := rowByCode(t, rows, "IND")
	assert.Equal(t, 50.0, india.Received)
	assert.Equal(t, 0.0, india.Supplied)
	assert.Equal(t, 50.0, india.Value)

	russia := rowByCode(t, rows, "RUS")
	assert.Equal(t, 0.0, russia.Received)
	assert.Equal(t, 50.0, russia.Supplied)
	assert.Equal(t, -50.0, russia.Value)
}

func TestAggregateConservation(t *testing.T) {
	reg := register.NewRegister([]model.TradeRecord{
		tradeRow("Russia", "RUS", "India", "IND", 2019, "Aircraft", 50),
		tradeRow("India", "IND", "Russia", "RUS", 2020, "Ships", 20),
		tradeRow("United States", "USA", "India", "IND", 2020, "Aircraft", 70),
	})
	world := testWorld()

	total, err := Aggregate(reg, world, baseQuery(model.ActivityTotal))
	require.NoError(t, err)
	for _, row := range total {
		assert.Equalf(t, row.Supplied+row.Received, row.Value, "total for %s", row.Code)
	}

	net, err := Aggregate(reg, world, baseQuery(model.ActivityNet))
	require.NoError(t, err)
	for _, row := range net {
		assert.Equalf(t, row.Received-row.Supplied, row.Value, "net for %s", row.Code)
	}
	assert.Equal(t, 100.0, rowByCode(t, net, "IND").Value)
	assert.Equal(t, -30.0, rowByCode(t, net, "RUS").Value)
	assert.Equal(t, -70.0, rowByCode(t, net, "USA").Value)
}

func TestAggregateEmptyResult(t *testing.T) {
	q := baseQuery(model.ActivitySupplied)
	q.Year = 1900

	rows, err := Aggregate(singleTradeRegister(), testWorld(), q)
	assert.Nil(t, rows)
	assert.ErrorIs(t, err, ErrEmptyResult)
	assert.EqualError(t, err, "No data for selected filters")
}

func TestAggregateFocusReceived(t *testing.T) {
	q := baseQuery(model.ActivityReceived)
	q.Focus = "India"

	rows, err := Aggregate(singleTradeRegister(), testWorld(), q)
	require.NoError(t, err)

	// From India's perspective "received" groups the suppliers.
	assert.Equal(t, 50.0, rowByCode(t, rows, "RUS").Value)
	// A region is never its own trading partner.
	assert.Zero(t, rowByCode(t, rows, "IND").Value)
}

func TestAggregateFocusNetSignConvention(t *testing.T) {
	reg := register.NewRegister([]model.TradeRecord{
		tradeRow("Russia", "RUS", "India", "IND", 2020, "Aircraft", 50),
		tradeRow("India", "IND", "Russia", "RUS", 2020, "Ships", 20),
	})
	q := baseQuery(model.ActivityNet)
	q.Focus = "India"

	rows, err := Aggregate(reg, testWorld(), q)
	require.NoError(t, err)

	// Russia received 20 from India and supplied 50 to it: its net position
	// against the focus is negative.
	russia := rowByCode(t, rows, "RUS")
	assert.Equal(t, 20.0, russia.Received)
	assert.Equal(t, 50.0, russia.Supplied)
	assert.Equal(t, -30.0, russia.Value)
	assert.Zero(t, rowByCode(t, rows, "IND").Value)
}

func TestAggregateLeftJoinCompleteness(t *testing.T) {
	world := testWorld()
	rows, err := Aggregate(singleTradeRegister(), world, baseQuery(model.ActivitySupplied))
	require.NoError(t, err)

	seen := map[string]int{}
	for _, row := range rows {
		seen[row.Code]++
	}
	for _, region := range world.Regions() {
		assert.Equalf(t, 1, seen[region.Code], "code %s must appear exactly once", region.Code)
	}
	assert.Len(t, rows, world.Len())
}

func TestAggregateCategoryFilter(t *testing.T) {
	reg := register.NewRegister([]model.TradeRecord{
		tradeRow("Russia", "RUS", "India", "IND", 2020, "Aircraft", 50),
		tradeRow("Russia", "RUS", "India", "IND", 2020, "Ships", 30),
	})
	q := baseQuery(model.ActivitySupplied)
	q.Category = "Ships"

	rows, err := Aggregate(reg, testWorld(), q)
	require.NoError(t, err)
	assert.Equal(t, 30.0, rowByCode(t, rows, "RUS").Value)
}

func TestAggregateRegionTypeFilterAdmitsFormerCountries(t *testing.T) {
	soviet := tradeRow("Soviet Union", "RUS", "India", "IND", 1980, "Aircraft", 40)
	soviet.SupplierType = model.RegionFormerCountry
	nato := tradeRow("NATO", "BEL", "India", "IND", 1980, "Aircraft", 10)
	nato.SupplierType = model.RegionOrganisation
	reg := register.NewRegister([]model.TradeRecord{soviet, nato})

	q := baseQuery(model.ActivitySupplied)
	q.RegionTypes = model.RegionCountry

	rows, err := Aggregate(reg, testWorld(), q)
	require.NoError(t, err)
	assert.Equal(t, 40.0, rowByCode(t, rows, "RUS").Value)
	assert.Zero(t, rowByCode(t, rows, "BEL").Value)
}

func TestAggregateCanonicalNameOverwrite(t *testing.T) {
	reg := register.NewRegister([]model.TradeRecord{
		tradeRow("United States", "USA", "India", "IND", 2020, "Aircraft", 5),
	})
	rows, err := Aggregate(reg, testWorld(), baseQuery(model.ActivitySupplied))
	require.NoError(t, err)

	// Country rows take the boundary dataset's canonical spelling.
	assert.Equal(t, "United States of America", rowByCode(t, rows, "USA").Region)
}

func TestAggregateOrganisationKeepsOwnName(t *testing.T) {
	nato := tradeRow("NATO", "BEL", "India", "IND", 1999, "Aircraft", 5)
	nato.SupplierType = model.RegionOrganisation
	reg := register.NewRegister([]model.TradeRecord{nato})

	q := baseQuery(model.ActivitySupplied)
	q.RegionTypes = model.RegionOrganisation

	rows, err := Aggregate(reg, testWorld(), q)
	require.NoError(t, err)
	assert.Equal(t, "NATO", rowByCode(t, rows, "BEL").Region)
}

func TestAggregateSharedCodeSumsAndPrefersCountry(t *testing.T) {
	nato := tradeRow("NATO", "BEL", "India", "IND", 1999, "Aircraft", 5)
	nato.SupplierType = model.RegionOrganisation
	reg := register.NewRegister([]model.TradeRecord{
		nato,
		tradeRow("Belgium", "BEL", "India", "IND", 1999, "Aircraft", 7),
	})

	rows, err := Aggregate(reg, testWorld(), baseQuery(model.ActivitySupplied))
	require.NoError(t, err)

	belgium := rowByCode(t, rows, "BEL")
	assert.Equal(t, 12.0, belgium.Value)
	assert.Equal(t, "Belgium", belgium.Region)
	assert.Equal(t, model.RegionCountry, belgium.Type)
}

func TestAggregateUnresolvedCodeExcludedFromMap(t *testing.T) {
	rebel := tradeRow("Russia", "RUS", "Unresolved Group", "", 2020, "Aircraft", 9)
	rebel.RecipientType = model.RegionRebelGroup
	reg := register.NewRegister([]model.TradeRecord{rebel})

	rows, err := Aggregate(reg, testWorld(), baseQuery(model.ActivityReceived))
	require.NoError(t, err)
	for _, row := range rows {
		assert.Zero(t, row.Value)
	}
}

func TestAggregateFocusSuppliedCounterpartTypeRestriction(t *testing.T) {
	country := tradeRow("Russia", "RUS", "India", "IND", 2020, "Aircraft", 50)
	rebel := tradeRow("Russia", "RUS", "Rebels (Belgium)", "BEL", 2020, "Aircraft", 5)
	rebel.RecipientType = model.RegionRebelGroup
	reg := register.NewRegister([]model.TradeRecord{country, rebel})

	q := baseQuery(model.ActivitySupplied)
	q.Focus = "Russia"
	q.RegionTypes = model.RegionCountry

	rows, err := Aggregate(reg, testWorld(), q)
	require.NoError(t, err)
	assert.Equal(t, 50.0, rowByCode(t, rows, "IND").Value)
	assert.Zero(t, rowByCode(t, rows, "BEL").Value)
}
