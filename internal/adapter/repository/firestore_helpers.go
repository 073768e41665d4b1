package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	carsCollection  = "CARS"
	usersCollection = "USERS"
	chatsCollection = "CHATS"

	// getAllBatchSize bounds the document references sent in one batch read.
	getAllBatchSize = 100
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

// countQuery runs a server-side count aggregation over q.
func countQuery(ctx context.Context, q firestore.Query) (int64, error) {
	results, err := q.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, err
	}

	v, ok := results["total"].(*firestorepb.Value)
	if !ok {
		return 0, nil
	}
	return v.GetIntegerValue(), nil
}
