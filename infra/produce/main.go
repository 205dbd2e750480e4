package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	UploadEvents *UploadEventService
}

func InitProduce(channel *amqp.Channel) *Produce {
	uploadEvents := InitUploadEventService(channel)
	if uploadEvents == nil {
		panic("Failed to initialize Upload event service")
	}

	return &Produce{
		UploadEvents: uploadEvents,
	}
}
