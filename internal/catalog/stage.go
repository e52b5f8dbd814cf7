package catalog

// Stage is a step in the life of one record during ingestion
type Stage int

const (
	StageFetched Stage = iota
	StageArtistUpserted
	StageArtistResolved
	StageSongUpserted
	StageCommitted
	StageFailed
)

var stageNames = map[Stage]string{
	StageFetched:        "fetched",
	StageArtistUpserted: "artist_upserted",
	StageArtistResolved: "artist_id_resolved",
	StageSongUpserted:   "song_upserted",
	StageCommitted:      "committed",
	StageFailed:         "failed",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}
