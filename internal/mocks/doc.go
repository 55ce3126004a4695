// Package mocks provides shared test doubles for the store, auth and mail
// interfaces.
//
// Two styles are available. The in-memory stores (NewMemoryStores) behave
// like the PostgreSQL implementation closely enough to drive the service and
// API layers end to end: they enforce unique emails, cascade deletes and
// resolve list membership. Each store also exposes Err fields to inject
// failures. TestifyMockUserStore is a testify/mock double for tests that
// assert exact calls.
//
//	stores := mocks.NewMemoryStores()
//	svc := service.NewSessionService(stores.Users, &mocks.MockTxRunner{}, jwt, hasher, nil)
package mocks
