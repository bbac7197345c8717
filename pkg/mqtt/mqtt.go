// Package mqtt connects the bot to the Pancy service mesh: telemetry
// topics the panel consumes plus a request/response convention for the
// ops surface.
package mqtt

import (
	"fmt"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/google/uuid"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Topic prefixes of the request/response convention. A request to topic T
// goes to requestPrefix+T and its answer comes back on
// responsePrefix+T+correlationID.
const (
	requestPrefix  = "pancy/request/"
	responsePrefix = "pancy/response/"
)

// connectTimeout bounds how long startup waits for the broker. Past it the
// client keeps retrying in the background and the bot starts without it.
const connectTimeout = 5 * time.Second

// MqttRequest is the envelope of a request message
type MqttRequest struct {
	CorrelationID string      `json:"correlationId"`
	Payload       interface{} `json:"payload,omitempty"`
}

// MqttResponse is the envelope of a response message
type MqttResponse struct {
	CorrelationID string      `json:"correlationId"`
	Data          interface{} `json:"data"`
	Error         string      `json:"error,omitempty"`
}

// MqttCommunicator handles the broker connection and the request/response
// plumbing on top of it
type MqttCommunicator struct {
	client   mqtt.Client
	clientID string

	mu      sync.RWMutex
	pending map[string]chan MqttResponse
}

var (
	communicator *MqttCommunicator
	once         sync.Once
)

// Init initializes the global MQTT communicator
func Init(host, port, username, password, clientID string) *MqttCommunicator {
	once.Do(func() {
		communicator = NewMqttCommunicator(host, port, username, password, clientID)
	})
	return communicator
}

// Get returns the global MQTT communicator
func Get() *MqttCommunicator {
	return communicator
}

// NewMqttCommunicator creates a communicator and starts connecting. An
// unreachable broker does not block startup: the paho client retries in
// the background and the on-connect log fires when it finally lands.
func NewMqttCommunicator(host, port, username, password, clientID string) *MqttCommunicator {
	mc := &MqttCommunicator{
		clientID: clientID,
		pending:  make(map[string]chan MqttResponse),
	}

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(fmt.Sprintf("%s_%s", clientID, uuid.New().String())).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success(fmt.Sprintf("Conectado al broker MQTT como %s", clientID), "MQTT")
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("Conexión MQTT perdida: %v", err), "MQTT")
		})

	mc.client = mqtt.NewClient(opts)

	if !mc.client.Connect().WaitTimeout(connectTimeout) {
		logger.Warn("El broker MQTT no responde, se seguirá reintentando en segundo plano.", "MQTT")
	}

	return mc
}

// Destroy closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if mc.client != nil && mc.client.IsConnected() {
		mc.client.Disconnect(250)
		logger.System("Conexión MQTT cerrada exitosamente.", "MQTT")
		return
	}
	logger.Warn("El cliente MQTT no estaba conectado, no se necesita cerrar.", "MQTT")
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc.client != nil && mc.client.IsConnected()
}

// Publish marshals the payload and sends it to a topic
func (mc *MqttCommunicator) Publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("payload inválido para %s: %w", topic, err)
	}
	return mc.PublishBytes(topic, data)
}

// PublishBytes sends a pre-encoded message to a topic
func (mc *MqttCommunicator) PublishBytes(topic string, data []byte) error {
	token := mc.client.Publish(topic, 0, false, data)
	token.Wait()
	return token.Error()
}

// Unsubscribe unsubscribes from a topic
func (mc *MqttCommunicator) Unsubscribe(topic string) error {
	token := mc.client.Unsubscribe(topic)
	token.Wait()
	return token.Error()
}

// Request sends a request to another service on the mesh and waits for its
// response or the timeout, whichever comes first.
func (mc *MqttCommunicator) Request(topic string, payload interface{}, timeout time.Duration) (interface{}, error) {
	correlationID := uuid.New().String()
	responseTopic := responsePrefix + topic + "/" + correlationID

	responseChan := make(chan MqttResponse, 1)
	mc.mu.Lock()
	mc.pending[correlationID] = responseChan
	mc.mu.Unlock()

	defer func() {
		mc.mu.Lock()
		delete(mc.pending, correlationID)
		mc.mu.Unlock()
		_ = mc.Unsubscribe(responseTopic)
	}()

	token := mc.client.Subscribe(responseTopic, 0, func(c mqtt.Client, msg mqtt.Message) {
		var response MqttResponse
		if err := json.Unmarshal(msg.Payload(), &response); err != nil {
			logger.Warn(fmt.Sprintf("Respuesta ilegible en %s: %v", msg.Topic(), err), "MQTT")
			return
		}

		mc.mu.RLock()
		ch, ok := mc.pending[response.CorrelationID]
		mc.mu.RUnlock()
		if ok {
			select {
			case ch <- response:
			default:
			}
		}
	})
	if token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	req := MqttRequest{CorrelationID: correlationID, Payload: payload}
	if err := mc.Publish(requestPrefix+topic, req); err != nil {
		return nil, err
	}

	select {
	case response := <-responseChan:
		if response.Error != "" {
			return nil, fmt.Errorf("%s", response.Error)
		}
		return response.Data, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("la petición a '%s' ha expirado (timeout)", topic)
	}
}

// RequestHandler answers one ops request. What it returns goes back to the
// caller as the response data.
type RequestHandler func(payload map[string]interface{}) (interface{}, error)

// On registers a handler for a request topic. Each request runs on its own
// goroutine so a slow handler never stalls the paho router.
func (mc *MqttCommunicator) On(requestTopic string, callback RequestHandler) {
	topic := requestPrefix + requestTopic

	token := mc.client.Subscribe(topic, 0, func(c mqtt.Client, msg mqtt.Message) {
		var request MqttRequest
		if err := json.Unmarshal(msg.Payload(), &request); err != nil {
			logger.Error(fmt.Sprintf("Petición ilegible en %s: %v", msg.Topic(), err), "MQTT")
			return
		}

		actualTopic := strings.TrimPrefix(msg.Topic(), requestPrefix)
		go mc.answer(actualTopic, request, callback)
	})

	if token.Wait() && token.Error() != nil {
		logger.Error(fmt.Sprintf("No se pudo suscribir a %s: %v", topic, token.Error()), "MQTT")
	}
}

// answer runs one handler and publishes its result on the response topic
func (mc *MqttCommunicator) answer(topic string, request MqttRequest, callback RequestHandler) {
	payloadMap := make(map[string]interface{})
	if pm, ok := request.Payload.(map[string]interface{}); ok {
		payloadMap = pm
	}
	payloadMap["_topic"] = topic

	response := MqttResponse{CorrelationID: request.CorrelationID}
	data, err := callback(payloadMap)
	if err != nil {
		response.Error = err.Error()
	} else {
		response.Data = data
	}

	responseTopic := responsePrefix + topic + "/" + request.CorrelationID
	if err := mc.Publish(responseTopic, response); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo responder en %s: %v", responseTopic, err), "MQTT")
	}
}
