package models

// Names of the tables threaded between pipeline stages.
const (
	ArtifactListings = "listings"
	ArtifactCalendar = "calendar"
	ArtifactReviews  = "reviews"

	ArtifactListingsClean  = "listings_clean"
	ArtifactCalendarAgg    = "calendar_agg"
	ArtifactEnriched       = "data_enriched"
	ArtifactRegression     = "listings_for_regression"
	ArtifactClassification = "listings_for_classification"

	ArtifactXReg = "X_reg"
	ArtifactYReg = "y_reg"
	ArtifactXClf = "X_clf"
	ArtifactYClf = "y_clf"

	ArtifactXTrainReg = "X_train_reg"
	ArtifactXTestReg  = "X_test_reg"
	ArtifactYTrainReg = "y_train_reg"
	ArtifactYTestReg  = "y_test_reg"
	ArtifactXTrainClf = "X_train_clf"
	ArtifactXTestClf  = "X_test_clf"
	ArtifactYTrainClf = "y_train_clf"
	ArtifactYTestClf  = "y_test_clf"
)

// InputArtifacts are the tables an external collaborator must provide.
var InputArtifacts = []string{ArtifactListings, ArtifactCalendar, ArtifactReviews}
