package config

import "errors"

var ErrConfigIsNil = errors.New("config is nil")
var ErrMissingReplicaID = errors.New("missing replica id")
var ErrInvalidReplicaID = errors.New("replica id must be a non-nil uuid")
var ErrUnknownLogLevel = errors.New("unknown log level")
var ErrInvalidShardCount = errors.New("shard count must be a positive power of two")
