package repository

import (
	"jan-server/services/thread-api/internal/infrastructure/database/repository/messagerepo"
	"jan-server/services/thread-api/internal/infrastructure/database/repository/sharelinkrepo"
	"jan-server/services/thread-api/internal/infrastructure/database/repository/threadrepo"

	"github.com/google/wire"
)

var RepositoryProvider = wire.NewSet(
	threadrepo.NewThreadGormRepository,
	messagerepo.NewMessageGormRepository,
	sharelinkrepo.NewShareLinkGormRepository,
)
