// Package mocks provides gomock-generated mocks for the platform's ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	accounts := mocks.NewMockAccountRepository(ctrl)
//	accounts.EXPECT().FindByAddress(gomock.Any(), "a@example.com").Return(account, nil)
package mocks

// Generate mocks for the storage repositories:
// AccountRepository, PostRepository, CommentRepository.
//go:generate go run go.uber.org/mock/mockgen -source=../ports/repositories.go -destination=repositories_mock.go -package=mocks

// Generate mock for the federated identity provider port.
//go:generate go run go.uber.org/mock/mockgen -source=../ports/identity.go -destination=identity_mock.go -package=mocks

// Generate mock for the stats cache port.
//go:generate go run go.uber.org/mock/mockgen -source=../ports/cache.go -destination=cache_mock.go -package=mocks
