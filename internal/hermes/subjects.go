package hermes

const (
	// SubjectDatasetReloadRequest lets the data pipeline ask running
	// instances to re-read the base dataset after publishing a new one.
	SubjectDatasetReloadRequest = "fleetshift.dataset.reload.request"
	SubjectDatasetReloadFailed  = "fleetshift.dataset.reload.failed"
)

var streamSubjects = []string{"fleetshift.dataset.>", "fleetshift.simulation.>"}

func SubjectDatasetReloaded(snapshotID string) string {
	return "fleetshift.dataset." + snapshotID + ".reloaded"
}

func SubjectSimulationCompleted(runID string) string {
	return "fleetshift.simulation." + runID + ".completed"
}
