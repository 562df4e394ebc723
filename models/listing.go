package models

// Column names of the raw listings, calendar and reviews tables, and of the
// features derived from them.
const (
	ColID        = "id"
	ColListingID = "listing_id"

	ColPrice           = "price"
	ColPriceFloat      = "price_float"
	ColWeeklyPrice     = "weekly_price"
	ColMonthlyPrice    = "monthly_price"
	ColSecurityDeposit = "security_deposit"
	ColCleaningFee     = "cleaning_fee"
	ColExtraPeople     = "extra_people"

	ColInstantBookable = "instant_bookable"
	ColHostSuperhost   = "host_is_superhost"

	ColLastScraped = "last_scraped"
	ColHostSince   = "host_since"
	ColFirstReview = "first_review"
	ColLastReview  = "last_review"

	ColRoomType      = "room_type"
	ColNeighbourhood = "neighbourhood_cleansed"
	ColPropertyType  = "property_type"

	ColAvailable = "available"
	ColBooked    = "booked"
	ColDate      = "date"

	ColBookingRate    = "booking_rate"
	ColMeanDailyPrice = "mean_daily_price"
	ColDays           = "days"

	ColYearReview     = "year_review"
	ColReviewsCount   = "reviews_count"
	ColLastReviewYear = "last_review_year"
)

// ColumnStats summarises one numeric column of an output table.
type ColumnStats struct {
	Count int
	Mean  float64
	Min   float64
	Max   float64
}

// ArtifactShape is the row and column count of one named pipeline artifact.
type ArtifactShape struct {
	Name string
	Rows int
	Cols int
}

// RunReport holds the computed summary of one pipeline run.
type RunReport struct {
	RunID           string
	Artifacts       []ArtifactShape
	EnrichedRows    int
	PricedListings  int
	Price           ColumnStats
	ClassTarget     string
	ClassBalance    map[int64]int
	ListingsByRoom  map[string]int
	TrainRegression int
	TestRegression  int
	TrainClassifier int
	TestClassifier  int
}
