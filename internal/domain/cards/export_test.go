package cards

import "time"

const PoolCacheExpiry = poolCacheExpiry

func SetClock(s *service, now func() time.Time) { s.now = now }
