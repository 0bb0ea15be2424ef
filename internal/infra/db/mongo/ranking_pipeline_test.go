package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	domainlessors "courtly/internal/domain/lessors"
	"courtly/internal/domain/reporting"
	"courtly/internal/domain/shared/geo"
)

func stageName(stage bson.D) string {
	return stage[0].Key
}

func stageValue(t *testing.T, stage bson.D) bson.D {
	t.Helper()
	v, ok := stage[0].Value.(bson.D)
	require.True(t, ok, "stage %s is not a document", stage[0].Key)
	return v
}

func lookup(d bson.D, key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

func TestRankingPipelineWithoutPointStartsWithMatch(t *testing.T) {
	p := rankingPipeline(reporting.RankingFilter{})
	require.NotEmpty(t, p)
	assert.Equal(t, "$match", stageName(p[0]))
	assert.Equal(t, "$lookup", stageName(p[1]))

	last := p[len(p)-1]
	assert.Equal(t, "$project", stageName(last))

	sort := stageValue(t, p[len(p)-2])
	assert.Equal(t, bson.D{{Key: "average_rating", Value: -1}, {Key: "_id", Value: 1}}, sort)
}

func TestRankingPipelineGeoNearFirst(t *testing.T) {
	p := rankingPipeline(reporting.RankingFilter{
		Near:              &geo.Point{Lng: 104.9, Lat: 11.5},
		MaxDistanceMeters: 5000,
	})
	require.Equal(t, "$geoNear", stageName(p[0]))
	geoNear := stageValue(t, p[0])
	v, ok := lookup(geoNear, "maxDistance")
	require.True(t, ok)
	assert.Equal(t, 5000.0, v)
	v, ok = lookup(geoNear, "distanceField")
	require.True(t, ok)
	assert.Equal(t, "distance", v)

	sort := stageValue(t, p[len(p)-2])
	assert.Equal(t, bson.D{{Key: "average_rating", Value: -1}, {Key: "distance", Value: 1}, {Key: "_id", Value: 1}}, sort)
}

func TestRankingPipelineNearestLimitsToOne(t *testing.T) {
	p := rankingPipeline(reporting.RankingFilter{Near: &geo.Point{Lng: 1, Lat: 1}, NearestOnly: true})
	assert.Equal(t, "$limit", stageName(p[len(p)-2]))
	assert.Equal(t, bson.D{{Key: "distance", Value: 1}, {Key: "_id", Value: 1}}, stageValue(t, p[len(p)-3]))
}

func TestRankingMatchClauses(t *testing.T) {
	available := true
	match := rankingMatch(reporting.RankingFilter{
		Ratings:       []int{4, 5},
		Name:          "a.b",
		Window:        &domainlessors.Window{From: 8, To: 22},
		TimeAvailable: &available,
	})

	v, ok := lookup(match, "rating_bucket")
	require.True(t, ok)
	assert.Equal(t, bson.D{{Key: "$in", Value: bson.A{4, 5}}}, v)

	v, ok = lookup(match, "sport_center_name")
	require.True(t, ok)
	assert.Equal(t, bson.D{{Key: "$regex", Value: `a\.b`}, {Key: "$options", Value: "i"}}, v)

	v, ok = lookup(match, "open_hour")
	require.True(t, ok)
	assert.Equal(t, bson.D{{Key: "$lte", Value: 8}}, v)

	v, ok = lookup(match, "time_available")
	require.True(t, ok)
	assert.Equal(t, true, v)

	assert.Empty(t, rankingMatch(reporting.RankingFilter{}))
}

func TestLessorDocumentStoresGeoJSONAndHourSpan(t *testing.T) {
	l := &domainlessors.Lessor{
		ID:       "l1",
		Hours:    domainlessors.OperatingHours{Open: "8am", Close: "12am"},
		Location: &geo.Point{Lng: 104.9, Lat: 11.5},
	}
	doc := newLessorDocument(l)
	require.NotNil(t, doc.Location)
	assert.Equal(t, "Point", doc.Location.Type)
	assert.Equal(t, []float64{104.9, 11.5}, doc.Location.Coordinates)
	require.NotNil(t, doc.OpenHour)
	assert.Equal(t, 8, *doc.OpenHour)
	assert.Equal(t, 24, *doc.CloseHour)

	back := doc.toAggregate()
	assert.Equal(t, l.Location, back.Location)
	assert.Equal(t, l.Hours, back.Hours)
}
