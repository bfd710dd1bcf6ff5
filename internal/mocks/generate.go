package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Backend --dir ../domain/livegame --output domain/livegame --outpkg livegamemock --filename backend_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/gameevent --output domain/gameevent --outpkg gameeventmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Source --dir ../domain/metadata --output domain/metadata --outpkg metadatamock --filename source_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/rawdata --output domain/rawdata --outpkg rawdatamock --filename repository_mock.go
