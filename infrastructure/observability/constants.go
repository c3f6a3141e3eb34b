package observability

// Metric name prefixes
const (
	MetricPrefix = "herocraft"
)

// Metric names
const (
	// Discord metrics
	CommandsHandledTotal = MetricPrefix + ".discord.commands_total"

	// Ledger metrics
	BalanceTransactionsTotal = MetricPrefix + ".balance.transactions_total"

	// Game metrics
	WheelBetsTotal             = MetricPrefix + ".wheel.bets_total"
	WheelSettlementsTotal      = MetricPrefix + ".wheel.settlements_total"
	WheelPaidTotal             = MetricPrefix + ".wheel.paid_total"
	LotteryTicketsTotal        = MetricPrefix + ".lottery.tickets_total"
	LotteryDrawingsTotal       = MetricPrefix + ".lottery.drawings_total"
	RideTheBusSessionsActive   = MetricPrefix + ".ridethebus.sessions_active"
	RideTheBusSessionsEndTotal = MetricPrefix + ".ridethebus.sessions_ended_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Database metrics
	DatabaseQueriesTotal  = MetricPrefix + ".database.queries_total"
	DatabaseQueryDuration = MetricPrefix + ".database.query_duration"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelOutcome   = "outcome"
	LabelStatus    = "status"
	LabelCommand   = "command"

	// Database labels
	LabelRepository = "repository"
	LabelMethod     = "method"
)
