package model

// CheckRun is one check-run result for a pull's head ref. Conclusion is
// empty while the run is still in progress.
type CheckRun struct {
	Name       string
	Conclusion string
}
