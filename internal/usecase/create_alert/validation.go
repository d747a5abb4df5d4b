package create_alert

import "fmt"

// validateRequest валидирует входные данные запроса
// Обязательные поля: заголовок, услуга, клиент, адрес и хотя бы один день
func validateRequest(req *Request) error {
	if req.CreatedBy <= 0 {
		return fmt.Errorf("%w: createdBy must be positive", ErrInvalidInput)
	}

	if req.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.Location.Address == "" {
		return fmt.Errorf("%w: location address is required", ErrInvalidInput)
	}

	if len(req.Days) == 0 {
		return fmt.Errorf("%w: at least one day is required", ErrInvalidInput)
	}

	for i, day := range req.Days {
		if day.StartTime.IsZero() || day.EndTime.IsZero() {
			return fmt.Errorf("%w: day %d: startTime and endTime are required", ErrInvalidInput, i)
		}
		if !day.StartTime.Before(day.EndTime) {
			return fmt.Errorf("%w: day %d: startTime must be before endTime", ErrInvalidInput, i)
		}
	}

	if !req.SendToAll && len(req.SelectedLocationAreas) == 0 {
		return fmt.Errorf("%w: either sendToAll or selectedLocationAreas is required", ErrInvalidInput)
	}

	return nil
}
