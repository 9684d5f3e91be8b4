package config

type WorkerKeyStruct struct {
	RecomputeQueue string
}

var WorkerKey = &WorkerKeyStruct{
	RecomputeQueue: "recompute_indices_queue",
}
