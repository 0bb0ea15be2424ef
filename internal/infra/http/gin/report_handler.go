package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"courtly/internal/app/dto"
	reportapp "courtly/internal/app/handlers/reports"
	"courtly/internal/app/queries"
	authsvc "courtly/internal/app/services/auth"
	"courtly/internal/domain/lessors"
	"courtly/internal/domain/reporting"
	"courtly/internal/domain/shared/errs"
	"courtly/internal/domain/shared/geo"
	"courtly/internal/infra/export/xlsx"
)

var (
	errInvalidTimeAvailability = errs.Validation("timeAvailability must be true or false")
	errInvalidNearest          = errs.Validation("nearest must be true or false")
)

type ReportHTTP interface {
	Ranking(c *gin.Context)
	Nearest(c *gin.Context)
	Rating(c *gin.Context)
	Monthly(c *gin.Context)
	MonthlyExport(c *gin.Context)
	Income(c *gin.Context)
}

type ReportHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

func (h ReportHandler) Ranking(c *gin.Context) {
	filter, err := parseRankingFilter(c)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	list, err := queries.Ask[reportapp.RankLessorsQuery, []dto.RankedLessor](c.Request.Context(), h.Queries, reportapp.RankLessorsQuery{Filter: filter})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"count": len(list), "lessors": list})
}

func (h ReportHandler) Nearest(c *gin.Context) {
	point, err := parsePoint(c.Query("lng"), c.Query("lat"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	if point == nil {
		respondError(c, h.Logger, reporting.ErrNearestNeedsPoint)
		return
	}
	q := reportapp.NearestLessorQuery{Lng: point.Lng, Lat: point.Lat}
	nearest, err := queries.Ask[reportapp.NearestLessorQuery, dto.RankedLessor](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"lessor": nearest})
}

func (h ReportHandler) Rating(c *gin.Context) {
	q := reportapp.RatingSummaryQuery{LessorID: c.Param("lessorID")}
	summary, err := queries.Ask[reportapp.RatingSummaryQuery, dto.RatingSummary](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"rating": summary})
}

func (h ReportHandler) Monthly(c *gin.Context) {
	report, ok := h.monthly(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"report": report})
}

// MonthlyExport returns the same counts as an Excel workbook.
func (h ReportHandler) MonthlyExport(c *gin.Context) {
	report, ok := h.monthly(c)
	if !ok {
		return
	}
	data, err := xlsx.MonthlyReport(report)
	if err != nil {
		respondError(c, h.Logger, errs.Computation(err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+xlsx.Filename(report.Collection)+`"`)
	c.Data(http.StatusOK, xlsx.ContentType, data)
}

// monthly resolves the selector; the query decides which role may count it.
func (h ReportHandler) monthly(c *gin.Context) (dto.MonthlyReport, bool) {
	p, ok := requireRole(c, authsvc.RoleLessor, authsvc.RoleModerator)
	if !ok {
		return dto.MonthlyReport{}, false
	}
	collection, err := reporting.ParseCollection(c.Query("collection"))
	if err != nil {
		respondError(c, h.Logger, err)
		return dto.MonthlyReport{}, false
	}
	q := reportapp.MonthlyCountsQuery{Collection: string(collection), LessorEmail: p.Email}
	report, err := queries.Ask[reportapp.MonthlyCountsQuery, dto.MonthlyReport](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return dto.MonthlyReport{}, false
	}
	return report, true
}

func (h ReportHandler) Income(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	income, err := queries.Ask[reportapp.LessorIncomeQuery, dto.Income](c.Request.Context(), h.Queries, reportapp.LessorIncomeQuery{LessorEmail: p.Email})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"income": income})
}

// parseRankingFilter reads the optional ranking clauses. Absent parameters
// add no clause; malformed ones are validation errors.
func parseRankingFilter(c *gin.Context) (reporting.RankingFilter, error) {
	var f reporting.RankingFilter
	if raw := strings.TrimSpace(c.Query("rating")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return f, reporting.ErrInvalidRating
			}
			f.Ratings = append(f.Ratings, n)
		}
	}
	f.Name = strings.TrimSpace(c.Query("name"))

	openLabel, closeLabel := strings.TrimSpace(c.Query("open")), strings.TrimSpace(c.Query("close"))
	if openLabel != "" || closeLabel != "" {
		w, err := lessors.NewWindow(openLabel, closeLabel)
		if err != nil {
			return f, err
		}
		f.Window = &w
	}
	if raw := strings.TrimSpace(c.Query("timeAvailability")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, errInvalidTimeAvailability
		}
		f.TimeAvailable = &v
	}

	point, err := parsePoint(c.Query("lng"), c.Query("lat"))
	if err != nil {
		return f, err
	}
	f.Near = point
	if raw := strings.TrimSpace(c.Query("maxDistance")); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return f, reporting.ErrInvalidDistance
		}
		f.MaxDistanceMeters = d
	}
	if raw := strings.TrimSpace(c.Query("nearest")); raw != "" {
		nearest, err := strconv.ParseBool(raw)
		if err != nil {
			return f, errInvalidNearest
		}
		f.NearestOnly = nearest
	}
	return f, f.Validate()
}

// parsePoint returns nil when both coordinates are absent.
func parsePoint(rawLng, rawLat string) (*geo.Point, error) {
	rawLng, rawLat = strings.TrimSpace(rawLng), strings.TrimSpace(rawLat)
	if rawLng == "" && rawLat == "" {
		return nil, nil
	}
	lng, err := strconv.ParseFloat(rawLng, 64)
	if err != nil {
		return nil, geo.ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return nil, geo.ErrInvalidCoordinates
	}
	p, err := geo.NewPoint(lng, lat)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var _ ReportHTTP = ReportHandler{}
