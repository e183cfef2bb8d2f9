package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type BookingTestSuite struct {
	BaseSuite
}

func TestBookingSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	suite.Run(t, new(BookingTestSuite))
}

func (s *BookingTestSuite) TestCreateBooking() {
	scenarios := []Scenario{
		{
			Name:           "books free seats with prices frozen per seat",
			Method:         "POST",
			URL:            "/bookings",
			Body:           strings.NewReader(`{"userId": "user-a", "showtimeId": 1, "seatIds": [4, 5]}`),
			ExpectedStatus: http.StatusCreated,
			ExpectedResponse: `{
				"id": 1,
				"userId": "user-a",
				"showtimeId": 1,
				"totalAmount": "39.98",
				"status": "pending",
				"seats": [
					{"seatId": 4, "price": "15.99"},
					{"seatId": 5, "price": "23.99"}
				]
			}`,
		},
		{
			Name:           "rejects a batch overlapping another user's lock",
			Method:         "POST",
			URL:            "/bookings",
			Body:           strings.NewReader(`{"userId": "user-a", "showtimeId": 1, "seatIds": [1, 2]}`),
			ExpectedStatus: http.StatusConflict,
			BeforeTestFunc: func(t testing.TB, app *TestApp) {
				lockSeats(t, app, "user-b", 1, []int{2})
			},
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				// All-or-nothing: the free seat in the batch must not be
				// booked either.
				count := countRows(t, app.DB, "SELECT COUNT(*) FROM booked_seats WHERE seat_id = 1")
				require.Equal(t, 0, count)
			},
		},
		{
			Name:           "consumes the caller's own locks",
			Method:         "POST",
			URL:            "/bookings",
			Body:           strings.NewReader(`{"userId": "user-c", "showtimeId": 1, "seatIds": [3]}`),
			ExpectedStatus: http.StatusCreated,
			BeforeTestFunc: func(t testing.TB, app *TestApp) {
				lockSeats(t, app, "user-c", 1, []int{3})
			},
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				count := countRows(t, app.DB, "SELECT COUNT(*) FROM seat_locks WHERE user_id = 'user-c'")
				require.Equal(t, 0, count)
			},
		},
		{
			Name:           "rejects a batch overlapping an existing booking",
			Method:         "POST",
			URL:            "/bookings",
			Body:           strings.NewReader(`{"userId": "user-d", "showtimeId": 1, "seatIds": [3, 4]}`),
			ExpectedStatus: http.StatusConflict,
		},
		{
			Name:           "returns 404 for an inactive showtime",
			Method:         "POST",
			URL:            "/bookings",
			Body:           strings.NewReader(`{"userId": "user-a", "showtimeId": 2, "seatIds": [1]}`),
			ExpectedStatus: http.StatusNotFound,
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}

func (s *BookingTestSuite) TestBookedPricesSurviveCatalogChanges() {
	bookingID := createBooking(s.T(), s.app, "user-a", 1, []int{4, 5})

	_, err := s.app.DB.Exec(context.Background(), "UPDATE showtimes SET base_price = 99.00 WHERE id = 1")
	s.Require().NoError(err)

	_, err = s.app.DB.Exec(context.Background(), "UPDATE seats SET price_multiplier = 3.00 WHERE id = 5")
	s.Require().NoError(err)

	scenario := Scenario{
		Name:           "booking detail keeps the prices charged at booking time",
		Method:         "GET",
		URL:            fmt.Sprintf("/bookings/%d", bookingID),
		ExpectedStatus: http.StatusOK,
		ExpectedResponse: fmt.Sprintf(`{
			"id": %d,
			"userId": "user-a",
			"showtimeId": 1,
			"movieTitle": "Heat",
			"theaterName": "Downtown 5",
			"totalAmount": "39.98",
			"status": "pending",
			"seats": [
				{"seatId": 4, "seatNumber": "B1", "type": "Standard", "price": "15.99"},
				{"seatId": 5, "seatNumber": "B2", "type": "Premium", "price": "23.99"}
			]
		}`, bookingID),
	}

	scenario.Run(s.T(), s.app)
}

func (s *BookingTestSuite) TestConcurrentBookingOfSameSeats() {
	const attempts = 4

	var wg sync.WaitGroup
	statuses := make(chan int, attempts)

	for i := 0; i < attempts; i++ {
		user := fmt.Sprintf("user-%d", i)

		wg.Add(1)
		go func() {
			defer wg.Done()

			body := strings.NewReader(fmt.Sprintf(`{"userId": %q, "showtimeId": 1, "seatIds": [1, 2]}`, user))

			res, err := http.Post(s.server.URL+"/bookings", "application/json", body)
			require.NoError(s.T(), err)
			defer res.Body.Close()

			statuses <- res.StatusCode
		}()
	}

	wg.Wait()
	close(statuses)

	created := 0
	for status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusConflict, http.StatusServiceUnavailable:
		default:
			s.Failf("unexpected status", "got %d", status)
		}
	}

	s.Equal(1, created, "exactly one concurrent booking must win")

	bookings := countRows(s.T(), s.app.DB, "SELECT COUNT(*) FROM bookings WHERE showtime_id = 1")
	s.Equal(1, bookings)

	bookedSeats := countRows(s.T(), s.app.DB, "SELECT COUNT(*) FROM booked_seats")
	s.Equal(2, bookedSeats, "losing attempts must not leave orphan seats")
}

func (s *BookingTestSuite) TestGetUserBookings() {
	bookingID := createBooking(s.T(), s.app, "user-a", 1, []int{4})

	req, err := prepareRequest("GET", "/users/user-a/bookings", nil, nil)
	s.Require().NoError(err)

	rec := executeAgainstApp(s.app, req)
	s.Equal(http.StatusOK, rec.Code)

	var summaries []struct {
		BookingID   int    `json:"bookingId"`
		MovieTitle  string `json:"movieTitle"`
		TheaterName string `json:"theaterName"`
		TotalAmount string `json:"totalAmount"`
		Status      string `json:"status"`
	}

	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&summaries))
	s.Require().Len(summaries, 1)

	s.Equal(bookingID, summaries[0].BookingID)
	s.Equal("Heat", summaries[0].MovieTitle)
	s.Equal("Downtown 5", summaries[0].TheaterName)
	s.Equal("15.99", summaries[0].TotalAmount)
	s.Equal("pending", summaries[0].Status)
}
