package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"courtly/internal/domain/accounts"
	domainpayments "courtly/internal/domain/payments"
	"courtly/internal/domain/reporting"
	"courtly/internal/domain/shared/status"
)

// ReportingRepository runs the read-side aggregations. It never joins a
// unit of work.
type ReportingRepository struct {
	db     *mongo.Database
	tracer trace.Tracer
}

func NewReportingRepository(db *mongo.Database) *ReportingRepository {
	return &ReportingRepository{db: db, tracer: otel.Tracer("courtly/db/mongo")}
}

func (r *ReportingRepository) RankLessors(ctx context.Context, f reporting.RankingFilter) (_ []reporting.RankedLessor, err error) {
	ctx, span := r.tracer.Start(ctx, "mongo.rank_lessors", trace.WithAttributes(
		attribute.Bool("filter.near", f.Near != nil),
		attribute.Bool("filter.nearest_only", f.NearestOnly),
	))
	defer func() { endSpan(span, err) }()

	var docs []rankedDocument
	if err := r.aggregate(ctx, collectionLessors, rankingPipeline(f), &docs); err != nil {
		return nil, err
	}
	out := make([]reporting.RankedLessor, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toRanked())
	}
	span.SetAttributes(attribute.Int("result.count", len(out)))
	return out, nil
}

func (r *ReportingRepository) MonthlyCounts(ctx context.Context, sel reporting.MonthlySelector) (_ []reporting.MonthlyCount, err error) {
	ctx, span := r.tracer.Start(ctx, "mongo.monthly_counts", trace.WithAttributes(
		attribute.String("collection", string(sel.Collection)),
	))
	defer func() { endSpan(span, err) }()

	var (
		collection string
		match      bson.D
	)
	switch sel.Collection {
	case reporting.CollectionBookings:
		collection = collectionBookings
		match = bson.D{}
		if sel.LessorID != "" {
			match = append(match, bson.E{Key: "lessor_id", Value: sel.LessorID})
		}
	case reporting.CollectionUsers:
		collection = collectionAccounts
		match = bson.D{{Key: "role", Value: string(accounts.RoleUser)}}
	default:
		return nil, reporting.ErrInvalidCollection
	}

	var docs []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		Count int `bson:"count"`
	}
	if err := r.aggregate(ctx, collection, monthlyPipeline(match), &docs); err != nil {
		return nil, err
	}
	out := make([]reporting.MonthlyCount, 0, len(docs))
	for _, d := range docs {
		out = append(out, reporting.MonthlyCount{Year: d.ID.Year, Month: d.ID.Month, Count: d.Count})
	}
	reporting.SortMonthly(out)
	return out, nil
}

func (r *ReportingRepository) IncomeByCurrency(ctx context.Context, lessorID string) (_ []reporting.CurrencyTotal, err error) {
	ctx, span := r.tracer.Start(ctx, "mongo.income_by_currency")
	defer func() { endSpan(span, err) }()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "lessor_id", Value: lessorID},
			{Key: "status", Value: string(domainpayments.Paid)},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$currency"},
			{Key: "amount", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
			{Key: "transactions", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	var docs []struct {
		Currency     string  `bson:"_id"`
		Amount       float64 `bson:"amount"`
		Transactions int     `bson:"transactions"`
	}
	if err := r.aggregate(ctx, collectionPayments, pipeline, &docs); err != nil {
		return nil, err
	}
	byCurrency := map[domainpayments.Currency]reporting.CurrencyTotal{}
	for _, d := range docs {
		c := domainpayments.Currency(d.Currency)
		byCurrency[c] = reporting.CurrencyTotal{Currency: c, Amount: d.Amount, Transactions: d.Transactions}
	}
	var out []reporting.CurrencyTotal
	for _, c := range []domainpayments.Currency{domainpayments.KHR, domainpayments.USD} {
		if t, ok := byCurrency[c]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *ReportingRepository) StarCounts(ctx context.Context, lessorID string) (_ reporting.StarCounts, err error) {
	ctx, span := r.tracer.Start(ctx, "mongo.star_counts")
	defer func() { endSpan(span, err) }()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "lessor_id", Value: lessorID},
			{Key: "status", Value: string(status.Approved)},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$rating"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	var docs []struct {
		Rating int `bson:"_id"`
		Count  int `bson:"count"`
	}
	if err := r.aggregate(ctx, collectionComments, pipeline, &docs); err != nil {
		return reporting.StarCounts{}, err
	}
	var counts reporting.StarCounts
	for _, d := range docs {
		if d.Rating >= 1 && d.Rating <= 5 {
			counts[d.Rating-1] = d.Count
		}
	}
	return counts, nil
}

func (r *ReportingRepository) aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline, out any) error {
	cur, err := r.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("mongo: aggregate %s: %w", collection, err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("mongo: decode %s aggregate: %w", collection, err)
	}
	return nil
}

func monthlyPipeline(match bson.D) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "year", Value: bson.D{{Key: "$year", Value: "$created_at"}}},
				{Key: "month", Value: bson.D{{Key: "$month", Value: "$created_at"}}},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}}},
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

type rankedDocument struct {
	Lessor        lessorDocument `bson:",inline"`
	RatingCount   int            `bson:"rating_count"`
	AverageRating float64        `bson:"average_rating"`
	Distance      *float64       `bson:"distance,omitempty"`
}

func (d rankedDocument) toRanked() reporting.RankedLessor {
	l := d.Lessor.toAggregate()
	return reporting.RankedLessor{
		LessorID:        string(l.ID),
		SportCenterName: l.SportCenterName,
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		Logo:            l.Logo,
		Address:         l.Address,
		Hours:           l.Hours,
		Location:        l.Location,
		TimeAvailable:   l.TimeAvailable,
		AverageRating:   d.AverageRating,
		RatingCount:     d.RatingCount,
		DistanceMeters:  d.Distance,
	}
}

var _ reporting.Reader = (*ReportingRepository)(nil)
