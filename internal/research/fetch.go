package research

import (
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/halcyon-research/equity-cli/pkg/alphavantage"
)

// fetchDegraded converts a failed market-data fetch into empty data. Fetch
// failures never abort a run; the analysts see the absence and classify it
// as insufficient data. Every attempt, failed or not, counts one market
// request toward the run cost.
func (rc *runCtx) fetchDegraded(source string, p alphavantage.Payload, err error) alphavantage.Payload {
	rc.usage.RecordFetch()
	if err != nil {
		zap.L().Warn("research: fetch degraded to empty data",
			zap.String("source", source),
			zap.String("symbol", rc.symbol),
			zap.Error(err),
		)
		return alphavantage.Payload{}
	}
	return p
}

// overviewIdentityFields are dropped from the raw company overview before
// it is handed to downstream analysts. Identity, narrative, and analyst
// rating fields either duplicate the overview analysis or anchor the model
// on someone else's conclusions.
var overviewIdentityFields = []string{
	"Symbol",
	"AssetType",
	"Name",
	"Description",
	"CIK",
	"Exchange",
	"Currency",
	"Country",
	"Sector",
	"Industry",
	"Address",
	"OfficialSite",
	"FiscalYearEnd",
	"LatestQuarter",
	"SharesFloat",
	"PercentInsiders",
	"PercentInstitutions",
	"DividendDate",
	"ExDividendDate",
	"AnalystTargetPrice",
	"AnalystRatingStrongBuy",
	"AnalystRatingBuy",
	"AnalystRatingHold",
	"AnalystRatingSell",
	"AnalystRatingStrongSell",
}

// strippedOverview removes identity and analyst fields, leaving only the
// numeric fundamentals.
func strippedOverview(overview alphavantage.Payload) alphavantage.Payload {
	return overview.Without(overviewIdentityFields...)
}

// truncateObjects caps the object list at key to at most n entries. The
// API returns histories newest first, so the head is the recent data.
func truncateObjects(p alphavantage.Payload, key string, n int) alphavantage.Payload {
	objs := p.Objects(key)
	if len(objs) > n {
		objs = objs[:n]
	}
	return p.WithObjects(key, objs)
}

// earningsForHistory keeps ten quarters of reported earnings and five
// fiscal years of annual EPS.
func earningsForHistory(earnings alphavantage.Payload) alphavantage.Payload {
	out := truncateObjects(earnings, "quarterlyEarnings", 10)
	return truncateObjects(out, "annualEarnings", 5)
}

// incomeForHistory keeps five annual income statements.
func incomeForHistory(income alphavantage.Payload) alphavantage.Payload {
	return truncateObjects(income, "annualReports", 5)
}

// statementForAnalysis keeps three annual reports of a financial statement.
func statementForAnalysis(statement alphavantage.Payload) alphavantage.Payload {
	return truncateObjects(statement, "annualReports", 3)
}

// statementsForProjection trims an income statement history for the
// earnings projection stage. Near the fiscal year end the window narrows
// to the last four quarters and widens to four annual reports so the model
// sees the year transition; otherwise eight quarters and three years.
func statementsForProjection(statement alphavantage.Payload, fiscalYearEnd string, now time.Time) alphavantage.Payload {
	quarters, years := 8, 3
	if nearFiscalYearEnd(fiscalYearEnd, now) {
		quarters, years = 4, 4
	}
	out := truncateObjects(statement, "quarterlyReports", quarters)
	return truncateObjects(out, "annualReports", years)
}

// trailingQuartersForValuation returns the trailing quarterly reports used
// to build a forward EPS base: four quarters normally, nine near the
// fiscal year end so a full prior year is visible.
func trailingQuartersForValuation(statement alphavantage.Payload, fiscalYearEnd string, now time.Time) []map[string]any {
	n := 4
	if nearFiscalYearEnd(fiscalYearEnd, now) {
		n = 9
	}
	objs := statement.Objects("quarterlyReports")
	if len(objs) > n {
		objs = objs[:n]
	}
	return objs
}

// noConsensusSentinel is used when the estimates feed has no usable
// next-quarter EPS consensus.
const noConsensusSentinel = "Not enough consensus"

// consensusEPS extracts the next fiscal quarter's average EPS estimate.
// When no matching horizon exists it falls back to the first estimate row;
// when nothing is usable it returns the sentinel.
func consensusEPS(estimates alphavantage.Payload) string {
	rows := estimates.Objects("estimates")
	if len(rows) == 0 {
		return noConsensusSentinel
	}

	pick := rows[0]
	for _, row := range rows {
		if horizon, _ := row["horizon"].(string); horizon == "next fiscal quarter" {
			pick = row
			break
		}
	}

	switch v := pick["eps_estimate_average"].(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return noConsensusSentinel
}

// mustJSON renders a value as compact JSON for inclusion in a prompt.
// Marshal failures yield an empty object rather than aborting a stage.
func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
