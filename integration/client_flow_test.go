package integration

import (
	"context"
	"time"

	"github.com/akeren/purim-rsvp/internal/models"
	"github.com/akeren/purim-rsvp/pkg/rsvpclient"
)

func (suite *RSVPFlowTestSuite) newClientMachine(store rsvpclient.Store) *rsvpclient.Machine {
	api := rsvpclient.NewHTTPClient(suite.baseURL, 5*time.Second)
	return rsvpclient.NewMachine(api, rsvpclient.NewLocalCache(store), rsvpclient.MachineConfig{BypassEnabled: true})
}

func (suite *RSVPFlowTestSuite) scenarioForm() rsvpclient.Form {
	form := rsvpclient.Form{FirstName: "דנה", LastName: "כהן", Phone: "0501234567"}
	form.SelectBranch("יבנה")
	return form
}

func (suite *RSVPFlowTestSuite) TestClientScenarios() {
	ctx := context.Background()

	firstDevice := rsvpclient.NewMemoryStore()
	machine := suite.newClientMachine(firstDevice)
	suite.Equal(rsvpclient.FreshForm{}, machine.Mount(ctx))

	// A: new phone, new unverified record, code sent.
	state, err := machine.Submit(ctx, suite.scenarioForm())
	suite.Require().NoError(err)
	pending, ok := state.(rsvpclient.PendingVerification)
	suite.Require().True(ok)
	suite.Equal(rsvpclient.PurposeNewSubmission, pending.Purpose)

	sentBefore := len(suite.gateway.Sent())
	suite.Require().True(machine.SendCode(ctx))
	suite.Len(suite.gateway.Sent(), sentBefore+1)

	var stored models.RSVP
	suite.Require().NoError(suite.db.First(&stored, "id = ?", pending.RecordID).Error)
	suite.False(stored.PhoneVerified)

	// E: wrong code is recoverable.
	verified, err := machine.VerifyCode(ctx, "000000")
	suite.NoError(err)
	suite.False(verified)

	// B: right code confirms and caches.
	verified, err = machine.VerifyCode(ctx, testOTPCode)
	suite.Require().NoError(err)
	suite.Require().True(verified)

	state, err = machine.Verified(ctx)
	suite.Require().NoError(err)
	summary, ok := state.(rsvpclient.ConfirmedSummary)
	suite.Require().True(ok)
	suite.True(summary.Record.PhoneVerified)
	suite.Equal("לא", summary.Record.TransportationLabel())

	cached, err := rsvpclient.NewLocalCache(firstDevice).Load(ctx)
	suite.Require().NoError(err)
	suite.Require().NotNil(cached)
	suite.Equal(pending.RecordID, cached.ID)

	// C: same phone from a second device.
	second := suite.newClientMachine(rsvpclient.NewMemoryStore())
	suite.Equal(rsvpclient.FreshForm{}, second.Mount(ctx))

	state, err = second.Submit(ctx, suite.scenarioForm())
	suite.Require().NoError(err)
	suite.Equal(rsvpclient.PendingVerification{
		RecordID: pending.RecordID,
		Phone:    "0501234567",
		Purpose:  rsvpclient.PurposeReturningUser,
	}, state)

	var count int64
	suite.db.Model(&models.RSVP{}).Where("phone = ?", "0501234567").Count(&count)
	suite.Equal(int64(1), count)

	// The first device is dropped back to the form once an admin deletes the record.
	suite.Require().NoError(suite.db.Delete(&models.RSVP{}, "id = ?", pending.RecordID).Error)
	suite.Equal(rsvpclient.FreshForm{}, suite.newClientMachine(firstDevice).Mount(ctx))
}
