package mongo

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"courtly/internal/domain/reporting"
	"courtly/internal/domain/shared/status"
)

// rankingPipeline builds the lessor ranking aggregation. $geoNear has to be
// the first stage when a reference point is given.
func rankingPipeline(f reporting.RankingFilter) mongo.Pipeline {
	approved := bson.D{{Key: "status", Value: string(status.Approved)}}
	pipeline := mongo.Pipeline{}
	if f.Near != nil {
		geoNear := bson.D{
			{Key: "near", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: bson.A{f.Near.Lng, f.Near.Lat}},
			}},
			{Key: "distanceField", Value: "distance"},
			{Key: "key", Value: "location"},
			{Key: "spherical", Value: true},
			{Key: "query", Value: approved},
		}
		if f.MaxDistanceMeters > 0 {
			geoNear = append(geoNear, bson.E{Key: "maxDistance", Value: f.MaxDistanceMeters})
		}
		pipeline = append(pipeline, bson.D{{Key: "$geoNear", Value: geoNear}})
	} else {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: approved}})
	}

	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionComments},
			{Key: "let", Value: bson.D{{Key: "lid", Value: "$_id"}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$lessor_id", "$$lid"}}},
					bson.D{{Key: "$eq", Value: bson.A{"$status", string(status.Approved)}}},
				}}}}}}},
				bson.D{{Key: "$project", Value: bson.D{{Key: "rating", Value: 1}}}},
			}},
			{Key: "as", Value: "ratings"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "rating_count", Value: bson.D{{Key: "$size", Value: "$ratings"}}},
			{Key: "rating_mean", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$avg", Value: "$ratings.rating"}}, 0,
			}}}},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "average_rating", Value: bson.D{{Key: "$divide", Value: bson.A{
				bson.D{{Key: "$floor", Value: bson.D{{Key: "$add", Value: bson.A{
					bson.D{{Key: "$multiply", Value: bson.A{"$rating_mean", 10}}}, 0.5,
				}}}}},
				10,
			}}}},
			{Key: "rating_bucket", Value: bson.D{{Key: "$floor", Value: "$rating_mean"}}},
		}}},
	)

	if match := rankingMatch(f); len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}

	if f.NearestOnly {
		pipeline = append(pipeline,
			bson.D{{Key: "$sort", Value: bson.D{{Key: "distance", Value: 1}, {Key: "_id", Value: 1}}}},
			bson.D{{Key: "$limit", Value: 1}},
		)
	} else {
		sort := bson.D{{Key: "average_rating", Value: -1}}
		if f.Near != nil {
			sort = append(sort, bson.E{Key: "distance", Value: 1})
		}
		sort = append(sort, bson.E{Key: "_id", Value: 1})
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sort}})
	}

	return append(pipeline, bson.D{{Key: "$project", Value: bson.D{
		{Key: "ratings", Value: 0},
		{Key: "password_hash", Value: 0},
	}}})
}

func rankingMatch(f reporting.RankingFilter) bson.D {
	match := bson.D{}
	if len(f.Ratings) > 0 {
		buckets := bson.A{}
		for _, r := range f.Ratings {
			buckets = append(buckets, r)
		}
		match = append(match, bson.E{Key: "rating_bucket", Value: bson.D{{Key: "$in", Value: buckets}}})
	}
	if name := strings.TrimSpace(f.Name); name != "" {
		match = append(match, bson.E{Key: "sport_center_name", Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(name)},
			{Key: "$options", Value: "i"},
		}})
	}
	if f.Window != nil {
		match = append(match,
			bson.E{Key: "open_hour", Value: bson.D{{Key: "$lte", Value: f.Window.From}}},
			bson.E{Key: "close_hour", Value: bson.D{{Key: "$gte", Value: f.Window.To}}},
		)
	}
	if f.TimeAvailable != nil {
		match = append(match, bson.E{Key: "time_available", Value: *f.TimeAvailable})
	}
	return match
}
