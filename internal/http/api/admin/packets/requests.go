package packets

// MaxPushPayload bounds the raw text body accepted by POST /api/admin/push.
const MaxPushPayload = 4 << 10
