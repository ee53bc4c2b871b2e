package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/profile --output domain/profile --outpkg profilemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SessionProvider --dir ../usecase --output usecase --outpkg usecasemock --filename session_provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name CodeExchanger --dir ../usecase --output usecase --outpkg usecasemock --filename code_exchanger_mock.go
