package actions

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"
	"github.com/relloyd/whload/logger"
)

type WebServerResponse uint32

const (
	Okay WebServerResponse = iota + 1
	Error
)

func (w WebServerResponse) MarshalJSON() ([]byte, error) {
	var retval string
	switch w {
	case Okay:
		retval = "ok"
	case Error:
		retval = "error"
	default:
		err := fmt.Errorf("unhandled WebServerResponse value in MarshalJSON() conversion")
		return nil, err
	}
	return json.Marshal(retval)
}

type ResponseSimple struct {
	ServerStatus WebServerResponse `json:"status"`
}

type ResponseError struct {
	Status  WebServerResponse `json:"status"`
	Message string            `json:"message"`
}

func GetHandlerHealth(log logger.Logger) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseSimple{ServerStatus: Okay})
	}
}

func GetHandlerStopServer(log logger.Logger, chanStop chan string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		select {
		case chanStop <- "stop":
			log.Info("Stop signal sent")
		default: // stop already requested
		}
		respond(log, w, ResponseSimple{ServerStatus: Okay})
	}
}

// GetHandlerLoad decodes a trigger event from the request body and runs the load inside the request.
// The response body is the LoadResult, or a ResponseError with status 400 for a bad event
// and 500 for a failed load.
func GetHandlerLoad(log logger.Logger, h LoadHandler) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		b, err := ioutil.ReadAll(r.Body)
		if err != nil {
			logAndRespond(log, err, w, http.StatusBadRequest, fmt.Sprintf("error reading request: %v", err))
			return
		}
		evt := TriggerEvent{}
		if err = json.Unmarshal(b, &evt); err != nil {
			logAndRespond(log, err, w, http.StatusBadRequest, fmt.Sprintf("error unmarshalling JSON: %v", err))
			return
		}
		if _, err = evt.Timestamp(); err != nil {
			logAndRespond(log, err, w, http.StatusBadRequest, err.Error())
			return
		}
		res, err := h.Handle(r.Context(), evt)
		if err != nil {
			code := http.StatusInternalServerError
			if errors.Is(err, ErrMissingTimestamp) {
				code = http.StatusBadRequest
			}
			logAndRespond(log, err, w, code, err.Error())
			return
		}
		w.WriteHeader(http.StatusOK)
		respond(log, w, res)
	}
}

func logAndRespond(log logger.Logger, err error, w http.ResponseWriter, code int, msg string) {
	log.Error(err)
	w.WriteHeader(code)
	respond(log, w, ResponseError{Status: Error, Message: msg})
}

// respond will marshal i to a string and write it to w.
func respond(log logger.Logger, w http.ResponseWriter, i interface{}) {
	j, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		log.Panic(err)
	}
	_, err = fmt.Fprint(w, string(j))
	if err != nil {
		log.Error(err)
	}
}
